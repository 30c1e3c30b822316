// internal/service/user_test.go
package service

import (
	"context"
	"testing"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.users.Register(context.Background(), RegisterInput{
		Username: "farmer",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "farmer", out.User.Username)

	logged, err := env.users.Login(context.Background(), LoginInput{
		Username: "farmer",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, logged.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), RegisterInput{
		Username: "farmer",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = env.users.Register(context.Background(), RegisterInput{
		Username: "farmer",
		Password: "another-pass",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), RegisterInput{
		Username: "farmer",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = env.users.Login(context.Background(), LoginInput{
		Username: "farmer",
		Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUserMasksExistence(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "whatever8",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), RegisterInput{
		Username: "farmer",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
