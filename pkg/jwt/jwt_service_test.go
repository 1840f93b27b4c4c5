package jwt

import (
	"SaveByte/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateTokenUser("3f2a0c8e-1111-4c4c-9d9d-000000000001", domain.RoleNGO)
	require.NoError(t, err)

	userID, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f2a0c8e-1111-4c4c-9d9d-000000000001", userID)
	assert.Equal(t, domain.RoleNGO, role)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateTokenUser("user", domain.RoleHostel)
	require.NoError(t, err)

	_, _, err = NewJWTService("secret-b").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{
		secretKey: "test-secret",
		issuer:    "SAVEBYTE",
		now:       func() time.Time { return time.Now().Add(-3 * time.Hour) },
	}
	token, err := svc.GenerateTokenUser("user", domain.RoleAWC)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_Garbage(t *testing.T) {
	_, _, err := NewJWTService("test-secret").GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
