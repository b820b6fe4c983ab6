package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/config"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Unique index names on users, used to map insert races back to field errors.
const (
	usernameIndex = "idx_users_username"
	emailIndex    = "idx_users_email"
)

// bcrypt refuses passwords longer than this.
const maxPasswordBytes = 72

type AuthService struct {
	db   *gorm.DB
	cfg  *config.Config
	pets *PetService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, pets *PetService) *AuthService {
	return &AuthService{db: db, cfg: cfg, pets: pets}
}

// Register creates the user and its pet in one transaction and returns a
// fresh token pair. On any rejection no user row is written.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateRegistration(username, email, req.Password, req.PasswordConfirmation); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing []models.User
	if err := db.Where("username = ? OR email = ?", username, email).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	for _, u := range existing {
		if u.Username == username {
			return nil, Conflict("username", ErrUsernameTaken)
		}
	}
	if len(existing) > 0 {
		return nil, Conflict("email", ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hash),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			switch {
			case isUniqueViolation(err, usernameIndex):
				return Conflict("username", ErrUsernameTaken)
			case isUniqueViolation(err, emailIndex):
				return Conflict("email", ErrEmailTaken)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		pet, err := s.pets.create(tx, user.ID)
		if err != nil {
			return err
		}
		user.Pet = pet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, &user)
}

// Authenticate checks the username and password. Unknown usernames return
// ErrUserNotFound and wrong passwords ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, invalid("username", "username and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, ErrInvalidToken
	}
	tokenHash := hashToken(req.RefreshToken)
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = false", stored.ID).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, &user)
}

// Logout revokes the refresh token if it exists. Unknown or already revoked
// tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if req.RefreshToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
}

// Me returns the account and its pet, healing a missing pet.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	pet, err := s.pets.GetOrCreatePet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.MeResponse{
		User: userResponse(&user),
		Pet:  dto.NewPetResponse(pet),
	}, nil
}

func (s *AuthService) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteAccount removes the caller's own account after re-checking the password.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return invalid("password", "password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.DeleteUser(ctx, userID)
}

// DeleteUser removes the user together with its tasks, pet and refresh tokens.
// Children go first so the foreign keys never see an orphan.
func (s *AuthService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Pet{}).Error; err != nil {
			return fmt.Errorf("failed to delete pet: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}
		res := tx.Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// DeleteUserByUsername is the operator entry point used by the CLI.
func (s *AuthService) DeleteUserByUsername(ctx context.Context, username string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.DeleteUser(ctx, user.ID)
}

func validateRegistration(username, email, password, confirmation string) error {
	switch {
	case username == "":
		return invalid("username", "username is required")
	case email == "":
		return invalid("email", "email is required")
	case password == "":
		return invalid("password", "password is required")
	case confirmation == "":
		return invalid("password_confirmation", "password confirmation is required")
	case utf8.RuneCountInString(username) > 50:
		return invalid("username", "username must be at most 50 characters")
	case utf8.RuneCountInString(email) > 100 || !strings.Contains(email, "@"):
		return invalid("email", "email is not valid")
	case len(password) > maxPasswordBytes:
		return invalid("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	case password != confirmation:
		return invalid("password_confirmation", "passwords do not match")
	}
	return nil
}

func (s *AuthService) bcryptCost() int {
	if s.cfg == nil || s.cfg.BcryptCost < bcrypt.MinCost || s.cfg.BcryptCost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return s.cfg.BcryptCost
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
