package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
)

func testAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("oars-up"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminUsername:     "coach",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		JWTExpiration:     time.Hour,
		Issuer:            "boatplan-test",
	})
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	svc := testAuthService(t)

	resp, err := svc.Login(models.LoginRequest{Username: "coach", Password: "oars-up"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "coach", claims.Username)
	assert.Equal(t, "boatplan-test", claims.Issuer)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	svc := testAuthService(t)

	_, err := svc.Login(models.LoginRequest{Username: "coach", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsUnknownUser(t *testing.T) {
	svc := testAuthService(t)

	_, err := svc.Login(models.LoginRequest{Username: "cox", Password: "oars-up"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateRejectsGarbage(t *testing.T) {
	svc := testAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateRejectsForeignSecret(t *testing.T) {
	svc := testAuthService(t)
	other := NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminUsername:     "coach",
		AdminPasswordHash: svc.config.AdminPasswordHash,
		JWTSecret:         "different-secret",
		JWTExpiration:     time.Hour,
	})

	resp, err := other.Login(models.LoginRequest{Username: "coach", Password: "oars-up"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
