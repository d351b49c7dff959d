package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/apperr"
	"github.com/d60-Lab/microblog/pkg/storage"
)

func newUserService(t *testing.T, e *env) *userService {
	t.Helper()
	files, err := storage.NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)
	s := NewUserService(e.store, files).(*userService)
	s.cost = bcrypt.MinCost
	return s
}

func validSignUp() SignUpInput {
	return SignUpInput{
		Name:          "Alice",
		Account:       "alice",
		Email:         "alice@example.com",
		Password:      "12345678",
		CheckPassword: "12345678",
	}
}

func TestSignUp(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)

	u, err := s.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "12345678", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("12345678")))
}

func TestSignUpPasswordMismatchWritesNothing(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)

	in := validSignUp()
	in.CheckPassword = "different"
	_, err := s.SignUp(context.Background(), in)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualValues(t, 0, e.count(t, &model.User{}))
}

func TestSignUpValidation(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)
	ctx := context.Background()

	in := validSignUp()
	in.Name = strings.Repeat("名", 51)
	_, err := s.SignUp(ctx, in)
	assert.ErrorIs(t, err, ErrNameTooLong)

	in = validSignUp()
	in.Email = "not-an-email"
	_, err = s.SignUp(ctx, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = validSignUp()
	in.Account = ""
	_, err = s.SignUp(ctx, in)
	require.Error(t, err)
	assert.Equal(t, "account is required!", err.Error())

	assert.EqualValues(t, 0, e.count(t, &model.User{}))
}

func TestSignUpDuplicate(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)
	ctx := context.Background()
	_, err := s.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	in := validSignUp()
	in.Email = "other@example.com"
	_, err = s.SignUp(ctx, in)
	assert.ErrorIs(t, err, ErrAccountTaken)

	in = validSignUp()
	in.Account = "other"
	_, err = s.SignUp(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.EqualValues(t, 1, e.count(t, &model.User{}))
}

func TestUpdateProfileByNonOwnerForbidden(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)
	alice, bob := e.fx.User("alice"), e.fx.User("bob")

	name := "hacked"
	_, err := s.UpdateProfile(context.Background(), bob.ID, alice.ID, ProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	var got model.User
	require.NoError(t, e.db.First(&got, "id = ?", alice.ID).Error)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, alice.Avatar, got.Avatar)
}

func avatarHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("img"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest("PUT", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["avatar"][0]
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)
	ctx := context.Background()
	alice := e.fx.User("alice")

	intro := "hello there"
	u, err := s.UpdateProfile(ctx, alice.ID, alice.ID, ProfileInput{Introduction: &intro, Avatar: avatarHeader(t)})
	require.NoError(t, err)
	assert.Equal(t, "hello there", u.Introduction)
	// 未提交的字段保持原值
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "", u.CoverURL)
	assert.True(t, strings.HasPrefix(u.Avatar, "/upload/"))

	long := strings.Repeat("x", 161)
	_, err = s.UpdateProfile(ctx, alice.ID, alice.ID, ProfileInput{Introduction: &long})
	assert.ErrorIs(t, err, ErrProfileTooLong)
}

func TestUpdateAccount(t *testing.T) {
	e := newEnv(t)
	s := newUserService(t, e)
	ctx := context.Background()
	alice, bob := e.fx.User("alice"), e.fx.User("bob")

	in := AccountInput{Account: "alice2", Name: "Alice", Email: "alice2@example.com", Password: "pw", CheckPassword: "pw"}
	_, err := s.UpdateAccount(ctx, bob.ID, alice.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	bad := in
	bad.CheckPassword = "nope"
	_, err = s.UpdateAccount(ctx, alice.ID, alice.ID, bad)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	taken := in
	taken.Account = "bob"
	_, err = s.UpdateAccount(ctx, alice.ID, alice.ID, taken)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// 自己当前的 email 不算冲突
	same := in
	same.Email = "alice@example.com"
	v, err := s.UpdateAccount(ctx, alice.ID, alice.ID, same)
	require.NoError(t, err)
	assert.Equal(t, "alice2", v.Account)

	var got model.User
	require.NoError(t, e.db.First(&got, "id = ?", alice.ID).Error)
	assert.Equal(t, "alice2", got.Account)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("pw")))
}
