package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	username := fmt.Sprintf("reg_%s", gofakeit.DigitN(8))

	user, err := us.Register(ctx, username, "Имя", "Фамилия", "password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", user.Password, "пароль не должен храниться открытым текстом")

	// Повторная регистрация с тем же ником
	_, err = us.Register(ctx, username, "", "", "другой")
	require.ErrorIs(t, err, ErrUserExists)

	_, _, err = us.Login(ctx, username, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = us.Login(ctx, "no_such_user", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, logged, err := us.Login(ctx, username, "password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, token)

	byToken, err := us.UserByToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, byToken.ID)
}

func TestLoginInvalidatesOldToken(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	username := fmt.Sprintf("tok_%s", gofakeit.DigitN(8))
	_, err := us.Register(ctx, username, "", "", "secret")
	require.NoError(t, err)

	oldToken, _, err := us.Login(ctx, username, "secret")
	require.NoError(t, err)

	newToken, _, err := us.Login(ctx, username, "secret")
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken)

	_, err = us.UserByToken(ctx, oldToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = us.UserByToken(ctx, newToken)
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	username := fmt.Sprintf("out_%s", gofakeit.DigitN(8))
	_, err := us.Register(ctx, username, "", "", "secret")
	require.NoError(t, err)

	token, _, err := us.Login(ctx, username, "secret")
	require.NoError(t, err)

	require.NoError(t, us.Logout(ctx, token))

	_, err = us.UserByToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
