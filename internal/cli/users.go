package cli

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/config"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/database"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/services"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user together with its pet and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup()
		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		auth := services.NewAuthService(db, cfg, services.NewPetService(db, cfg.DefaultPetName))
		if err := auth.DeleteUserByUsername(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return fmt.Errorf("user %q not found", args[0])
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersDeleteCmd)
}
