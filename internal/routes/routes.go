package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/config"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Tasks  *handlers.TaskHandler
	Pet    *handlers.PetHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, users middleware.UserChecker, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth: public, stricter limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	// The refresh token in the body is the credential; the access token may
	// already have expired.
	auth.Post("/logout", h.Auth.Logout)

	session := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ActiveUser(users)}

	api.Get("/me", append(session, h.Auth.Me)...)
	api.Delete("/auth/account", append(session, h.Auth.DeleteAccount)...)

	tasks := api.Group("/tasks", session...)
	tasks.Get("/", h.Tasks.List)
	tasks.Post("/", h.Tasks.Create)
	tasks.Get("/:id", h.Tasks.Get)
	tasks.Post("/:id/complete", h.Tasks.Complete)
	tasks.Delete("/:id", h.Tasks.Delete)

	pet := api.Group("/pet", session...)
	pet.Get("/", h.Pet.Get)
	pet.Put("/", h.Pet.Rename)

	admin := api.Group("/admin", middleware.AdminRequired(cfg, users))
	admin.Delete("/users/:id", h.Admin.DeleteUser)
}
