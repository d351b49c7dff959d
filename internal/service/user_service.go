package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/apperr"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/metrics"
	"github.com/d60-Lab/microblog/pkg/storage"
)

// SignUpInput 注册参数
type SignUpInput struct {
	Name          string `json:"name" validate:"required"`
	Account       string `json:"account" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	CheckPassword string `json:"checkPassword"`
}

// ProfileInput nil 字段保持原值
type ProfileInput struct {
	Name         *string
	Introduction *string
	Avatar       *multipart.FileHeader
	Cover        *multipart.FileHeader
}

// AccountInput 修改账号设置
type AccountInput struct {
	Account       string `json:"account" validate:"required,max=50"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	CheckPassword string `json:"checkPassword"`
}

type UserService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.User, error)
	UpdateProfile(ctx context.Context, requesterID, targetID string, in ProfileInput) (*model.User, error)
	UpdateAccount(ctx context.Context, requesterID, targetID string, in AccountInput) (*AccountView, error)
}

type userService struct {
	store    repository.Store
	files    storage.Storage
	validate *validator.Validate
	cost     int
}

func NewUserService(store repository.Store, files storage.Storage) UserService {
	return &userService{
		store:    store,
		files:    files,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

// checkInput 所有校验都在写库之前完成
func (s *userService) checkInput(name, password, checkPassword string, in interface{}) error {
	if password != checkPassword {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return ErrNameTooLong
	}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			if f.Tag() == "required" {
				return apperr.Validation("%s is required!", strings.ToLower(f.Field()))
			}
			return apperr.Validation("%s is invalid!", strings.ToLower(f.Field()))
		}
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

func (s *userService) SignUp(ctx context.Context, in SignUpInput) (user *model.User, err error) {
	defer func() { metrics.RecordMutation("sign_up", err) }()

	if err := s.checkInput(in.Name, in.Password, in.CheckPassword, in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:     in.Name,
		Account:  in.Account,
		Email:    in.Email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		accountTaken, emailTaken, err := tx.Users().Taken(ctx, in.Account, in.Email, "")
		if err != nil {
			return err
		}
		if accountTaken {
			return ErrAccountTaken
		}
		if emailTaken {
			return ErrEmailTaken
		}
		return tx.Users().Create(ctx, u)
	})
	if database.IsUniqueViolation(err) {
		return nil, apperr.Conflict("Account or email is already registered")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, requesterID, targetID string, in ProfileInput) (user *model.User, err error) {
	defer func() { metrics.RecordMutation("update_profile", err) }()

	if requesterID != targetID {
		return nil, ErrForbidden
	}
	if in.Name != nil && utf8.RuneCountInString(*in.Name) > model.MaxNameLength {
		return nil, ErrProfileTooLong
	}
	if in.Introduction != nil && utf8.RuneCountInString(*in.Introduction) > model.MaxIntroLength {
		return nil, ErrProfileTooLong
	}

	users := s.store.Users()
	if _, err := users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Introduction != nil {
		fields["introduction"] = *in.Introduction
	}
	if in.Avatar != nil {
		p, err := s.files.Save(ctx, in.Avatar)
		if err != nil {
			return nil, err
		}
		fields["avatar"] = p
	}
	if in.Cover != nil {
		p, err := s.files.Save(ctx, in.Cover)
		if err != nil {
			return nil, err
		}
		fields["cover_url"] = p
	}
	if len(fields) > 0 {
		if err := users.Updates(ctx, targetID, fields); err != nil {
			return nil, err
		}
	}
	return users.GetByID(ctx, targetID)
}

func (s *userService) UpdateAccount(ctx context.Context, requesterID, targetID string, in AccountInput) (view *AccountView, err error) {
	defer func() { metrics.RecordMutation("update_account", err) }()

	if requesterID != targetID {
		return nil, ErrForbidden
	}
	if err := s.checkInput(in.Name, in.Password, in.CheckPassword, in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		accountTaken, emailTaken, err := tx.Users().Taken(ctx, in.Account, in.Email, targetID)
		if err != nil {
			return err
		}
		if accountTaken {
			return apperr.Conflict("Account already exists!")
		}
		if emailTaken {
			return apperr.Conflict("Email already exists!")
		}
		err = tx.Users().Updates(ctx, targetID, map[string]interface{}{
			"account":  in.Account,
			"name":     in.Name,
			"email":    in.Email,
			"password": string(hash),
		})
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if database.IsUniqueViolation(err) {
		return nil, apperr.Conflict("Account or email already exists!")
	}
	if err != nil {
		return nil, err
	}
	return &AccountView{ID: targetID, Account: in.Account, Name: in.Name, Email: in.Email}, nil
}
