package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/session"
)

func newAuthService(e *env) *authService {
	return NewAuthService(e.store, session.NewMemoryStore(), config.JWTConfig{
		Secret: "test-secret",
		TTL:    30 * 24 * time.Hour,
		Issuer: "microblog",
	}).(*authService)
}

func seedUserWithPassword(t *testing.T, e *env, account, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := e.fx.User(account)
	require.NoError(t, e.db.Model(u).Updates(map[string]interface{}{"password": string(hash), "role": role}).Error)
	u.Password, u.Role = string(hash), role
	return u
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	s := newAuthService(e)
	ctx := context.Background()
	seedUserWithPassword(t, e, "alice", "12345678", model.RoleUser)

	u, err := s.Authenticate(ctx, "alice", "12345678")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Account)

	_, err = s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Authenticate(ctx, "nobody", "12345678")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSignInAndVerify(t *testing.T) {
	e := newEnv(t)
	s := newAuthService(e)
	ctx := context.Background()
	alice := seedUserWithPassword(t, e, "alice", "12345678", model.RoleUser)

	res, err := s.SignIn(ctx, alice)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	u, claims, err := s.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.Equal(t, "alice", claims.User.Account)
	assert.Empty(t, claims.User.Password, "password never serialized into the token")
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	require.NoError(t, s.SignOut(ctx, claims.ID))
	_, _, err = s.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignInAdminForbidden(t *testing.T) {
	e := newEnv(t)
	s := newAuthService(e)
	root := seedUserWithPassword(t, e, "root", "12345678", model.RoleAdmin)

	_, err := s.SignIn(context.Background(), root)
	assert.ErrorIs(t, err, ErrSignInForbidden)
}

func TestVerifyRejects(t *testing.T) {
	e := newEnv(t)
	s := newAuthService(e)
	ctx := context.Background()
	alice := seedUserWithPassword(t, e, "alice", "12345678", model.RoleUser)

	_, _, err := s.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 错误的密钥
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Subject: alice.ID},
	}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, _, err = s.Verify(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 过期
	res, err := s.SignIn(ctx, alice)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	_, _, err = s.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
