package auth_test

import (
	"testing"
	"time"

	"github.com/agrostack/fieldops/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	hash, err := hasher.Hash("irrigation-season-2025")
	require.NoError(t, err)
	assert.True(t, len(hash) > 0)

	ok, err := hasher.Verify("irrigation-season-2025", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Verify("anything", "not-an-encoded-hash")
	assert.Error(t, err)
}

func TestTokenManager(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	token, err := tm.Generate("6cfe4f48-52f1-4fd9-a8d1-6c4838a7a1ab", "farmer1")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "6cfe4f48-52f1-4fd9-a8d1-6c4838a7a1ab", claims.UserID)
	assert.Equal(t, "farmer1", claims.Username)

	_, err = tm.Validate(token + "tampered")
	assert.Error(t, err)

	expired := auth.NewTokenManager("test_secret", -time.Minute)
	token, err = expired.Generate("id", "farmer1")
	require.NoError(t, err)
	_, err = expired.Validate(token)
	assert.Error(t, err)
}
