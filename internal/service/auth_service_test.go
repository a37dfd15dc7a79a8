package service

import (
	"testing"
	"time"

	"trailforge_backend/internal/config"
	"trailforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(f *engineFixture) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(f.userRepo, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	f := setupEngine(t)
	auth := setupAuth(f)

	resp, err := auth.Register(RegisterRequest{
		Name:     "karla",
		Email:    "karla@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, "supersecret", resp.User.Password)

	claims, err := util.ParseJWT(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	login, err := auth.Login(LoginRequest{Email: "karla@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = auth.Login(LoginRequest{Email: "karla@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := setupEngine(t)
	auth := setupAuth(f)

	_, err := auth.Register(RegisterRequest{Name: "a", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = auth.Register(RegisterRequest{Name: "b", Email: "dup@example.com", Password: "password2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLinkTelegramReflectsInSnapshot(t *testing.T) {
	f := setupEngine(t)
	userService := NewUserService(f.userRepo)
	user := f.createUser(t, "lena")

	require.NoError(t, userService.LinkTelegram(user.ID, 424242))

	snapshot, err := f.stats.Snapshot(user.ID)
	require.NoError(t, err)
	assert.True(t, snapshot.TelegramLinked)
}
