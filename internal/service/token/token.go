package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orchidbooks/storefront/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidRefresh = errors.New("invalid refresh token")

type AccessClaims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

// Issue signs an access/refresh pair and records the refresh jti so it
// can be revoked later.
func (s *Service) Issue(ctx context.Context, user *models.User) (*Pair, error) {
	now := time.Now()
	accessExp := now.Add(AccessTTL)
	refreshExp := now.Add(RefreshTTL)

	access, err := s.signAccess(user, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	jti := uuid.NewString()
	refresh, err := s.signRefresh(user.ID, jti, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	record := models.RefreshToken{JTI: jti, UserID: user.ID, ExpiresAt: refreshExp}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Rotate validates a refresh token against the store, revokes its jti
// and issues a fresh pair for the token's user.
func (s *Service) Rotate(ctx context.Context, rawRefresh string) (*Pair, *models.User, error) {
	claims, err := s.ParseRefresh(rawRefresh)
	if err != nil {
		return nil, nil, ErrInvalidRefresh
	}

	var stored models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("jti = ?", claims.ID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidRefresh
		}
		return nil, nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, nil, ErrInvalidRefresh
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", stored.UserID).First(&user).Error; err != nil {
		return nil, nil, ErrInvalidRefresh
	}

	if err := s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", claims.ID).
		Update("revoked", true).Error; err != nil {
		return nil, nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	pair, err := s.Issue(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return pair, &user, nil
}

// Revoke marks the token's jti revoked. Unknown or malformed tokens are
// a no-op so sign-out never fails the caller.
func (s *Service) Revoke(ctx context.Context, rawRefresh string) error {
	claims, err := s.ParseRefresh(rawRefresh)
	if err != nil {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", claims.ID).
		Update("revoked", true).Error
}

func (s *Service) ParseAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid access token")
	}
	return &claims, nil
}

func (s *Service) ParseRefresh(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidRefresh
	}
	if claims.ID == "" {
		return nil, ErrInvalidRefresh
	}
	return &claims, nil
}

func (s *Service) signAccess(user *models.User, exp time.Time) (string, error) {
	claims := AccessClaims{
		Role: user.Role,
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

func (s *Service) signRefresh(userID, jti string, exp time.Time) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
}
