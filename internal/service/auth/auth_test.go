package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orchidbooks/storefront/internal/models"
	"github.com/orchidbooks/storefront/internal/service/token"
)

func testService(t *testing.T) *Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "auth.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	return &Service{DB: db, Tokens: tokens}
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := testService(t)

	created, err := svc.SignUp(ctx, "Dana", "dana@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RoleCustomer, created.Role)

	user, pair, err := svc.SignIn(ctx, "dana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := testService(t)

	_, err := svc.SignUp(ctx, "Dana", "dana@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "Other Dana", "dana@example.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := testService(t)

	_, err := svc.SignUp(ctx, "Dana", "dana@example.com", "secret123")
	require.NoError(t, err)

	// unknown email and wrong password are indistinguishable
	_, _, unknownErr := svc.SignIn(ctx, "nobody@example.com", "secret123")
	_, _, wrongErr := svc.SignIn(ctx, "dana@example.com", "not-it")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestSignOutRevokesRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := testService(t)

	_, err := svc.SignUp(ctx, "Dana", "dana@example.com", "secret123")
	require.NoError(t, err)
	_, pair, err := svc.SignIn(ctx, "dana@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, pair.RefreshToken))

	_, _, err = svc.Tokens.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, token.ErrInvalidRefresh)
}

func TestSignOutToleratesGarbage(t *testing.T) {
	t.Parallel()

	svc := testService(t)
	assert.NoError(t, svc.SignOut(context.Background(), "not-a-jwt"))
	assert.NoError(t, svc.SignOut(context.Background(), ""))
}
