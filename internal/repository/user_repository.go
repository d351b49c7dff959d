package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByAccount(ctx context.Context, account string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Taken 检查 account / email 是否已被 excludeID 以外的用户占用
	Taken(ctx context.Context, account, email, excludeID string) (accountTaken, emailTaken bool, err error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, errors.Wrapf(err, "get user %s", id)
	}
	return &u, nil
}

func (r *userRepository) GetByAccount(ctx context.Context, account string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("account = ?", account).First(&u).Error; err != nil {
		return nil, errors.Wrap(err, "get user by account")
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count user")
	}
	return cnt > 0, nil
}

func (r *userRepository) Taken(ctx context.Context, account, email, excludeID string) (bool, bool, error) {
	var row struct {
		AccountCnt int64
		EmailCnt   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(1) FROM users WHERE id <> ? AND account = ?) AS account_cnt,
			(SELECT COUNT(1) FROM users WHERE id <> ? AND email = ?) AS email_cnt
	`, excludeID, account, excludeID, email).Scan(&row).Error
	if err != nil {
		return false, false, errors.Wrap(err, "check account/email")
	}
	return row.AccountCnt > 0, row.EmailCnt > 0, nil
}

func (r *userRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update user %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "update user %s", id)
	}
	return nil
}
