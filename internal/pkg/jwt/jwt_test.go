package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leavehq/leave-backend-go/internal/domain/user"
)

const testSecret = "test-secret-key"

func TestParseRefreshToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseRefreshToken_Expired(t *testing.T) {
	// Negative expiration puts exp in the past
	svc := NewJWTService(testSecret, "1h", "-1h")

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(token)
	assert.Error(t, err)
}

func TestParseRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}

func TestRevokeToken_PrunesExpiredEntries(t *testing.T) {
	expiredSvc := NewJWTService(testSecret, "1h", "-1h")
	expired, _, err := expiredSvc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	svc := NewJWTService(testSecret, "1h", "24h")
	svc.RevokeToken(expired)
	assert.True(t, svc.IsTokenRevoked(expired))

	fresh, _, err := svc.GenerateRefreshToken("user-2")
	require.NoError(t, err)
	svc.RevokeToken(fresh)

	// Revoking the fresh token prunes the entry whose expiry has passed
	assert.False(t, svc.IsTokenRevoked(expired))
	assert.True(t, svc.IsTokenRevoked(fresh))
}
