package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/session"
)

// Claims token 中携带公开资料（不含密码）
type Claims struct {
	User *model.User `json:"user"`
	jwt.RegisteredClaims
}

// AuthService 账号密码校验、签发与吊销 token
type AuthService interface {
	Authenticate(ctx context.Context, account, password string) (*model.User, error)
	SignIn(ctx context.Context, user *model.User) (*SignInResult, error)
	SignOut(ctx context.Context, tokenID string) error
	// Verify 校验 token 并加载当前用户
	Verify(ctx context.Context, token string) (*model.User, *Claims, error)
}

type authService struct {
	store    repository.Store
	sessions session.Store
	secret   []byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

func NewAuthService(store repository.Store, sessions session.Store, cfg config.JWTConfig) AuthService {
	return &authService{
		store:    store,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
}

func (s *authService) Authenticate(ctx context.Context, account, password string) (*model.User, error) {
	u, err := s.store.Users().GetByAccount(ctx, account)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, user *model.User) (*SignInResult, error) {
	if user.Role != model.RoleUser {
		return nil, ErrSignInForbidden
	}
	now := s.now()
	claims := &Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Create(ctx, claims.ID, user.ID, s.ttl); err != nil {
		return nil, err
	}
	return &SignInResult{Token: token, User: user}, nil
}

func (s *authService) SignOut(ctx context.Context, tokenID string) error {
	return s.sessions.Delete(ctx, tokenID)
}

func (s *authService) Verify(ctx context.Context, token string) (*model.User, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	userID, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, err
	}
	if userID != claims.Subject {
		return nil, nil, ErrInvalidToken
	}

	u, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, err
	}
	return u, claims, nil
}
