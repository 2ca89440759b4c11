package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orchidbooks/storefront/internal/hash"
	"github.com/orchidbooks/storefront/internal/logging"
	"github.com/orchidbooks/storefront/internal/models"
	"github.com/orchidbooks/storefront/internal/service/token"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service struct {
	DB     *gorm.DB
	Tokens *token.Service
}

// SignIn looks a user up by exact email and compares the password
// against the stored salted hash. The returned user never carries the
// hash to the wire (json:"-").
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, *token.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in")

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		l.Error("sign_in_failed", "reason", "user lookup", "error", err)
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(ctx, &user)
	if err != nil {
		l.Error("sign_in_failed", "reason", "issue tokens", "error", err)
		return nil, nil, err
	}

	l.Info("sign_in_success", "user_id", user.ID, "role", user.Role)
	return &user, pair, nil
}

// SignUp creates a customer account. Duplicate emails surface as
// ErrEmailTaken.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_up")

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("sign_up_failed", "reason", "hash password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var existing models.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("sign_up_failed", "reason", "email lookup", "error", err)
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("sign_up_failed", "reason", "create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("sign_up_success", "user_id", user.ID)
	return &user, nil
}

// SignOut revokes the refresh token; a missing or garbage token is not
// an error.
func (s *Service) SignOut(ctx context.Context, rawRefresh string) error {
	return s.Tokens.Revoke(ctx, rawRefresh)
}
