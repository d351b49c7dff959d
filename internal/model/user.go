package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Account      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"account"`
	Password     string    `gorm:"type:varchar(100);not null" json:"-"`
	Name         string    `gorm:"type:varchar(50);not null" json:"name"`
	Avatar       string    `gorm:"type:varchar(255)" json:"avatar"`
	CoverURL     string    `gorm:"column:cover_url;type:varchar(255)" json:"coverUrl"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	Role         string    `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Author 推文/回复中内嵌的作者信息
type Author struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

func (u *User) Author() Author {
	return Author{Account: u.Account, Name: u.Name, Avatar: u.Avatar}
}
