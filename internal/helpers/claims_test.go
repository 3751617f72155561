package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestSignAndParseSession(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := SignSession(testSecret, "64b7f0c2a1b2c3d4e5f60718", "alice", "a@x.com", time.Hour, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := ParseSession(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsOwner("64b7f0c2a1b2c3d4e5f60718"))
	assert.False(t, claims.IsOwner("someone-else"))
}

func TestParseSessionExpired(t *testing.T) {
	token, _, err := SignSession(testSecret, "u1", "alice", "a@x.com", time.Minute, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = ParseSession(testSecret, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestParseSessionRejectsTampering(t *testing.T) {
	token, _, err := SignSession(testSecret, "u1", "alice", "a@x.com", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseSession([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = ParseSession(testSecret, "garbage")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestParseSessionRejectsNoneAlgorithm(t *testing.T) {
	claims := &SessionClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSession(testSecret, token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestIsOwnerNilClaims(t *testing.T) {
	var claims *SessionClaims
	assert.False(t, claims.IsOwner("u1"))
}
