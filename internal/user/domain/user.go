// Package domain holds the customer/admin user entity.
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is deactivated")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	Phone        string `gorm:"column:phone;type:varchar(50)" json:"phone"`
	Role         string `gorm:"column:role;type:varchar(20);not null;default:user" json:"role"`
	Active       bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
