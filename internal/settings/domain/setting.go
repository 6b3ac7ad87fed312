// Package domain holds the key/value store settings, including the BCV
// exchange rate.
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

type Setting struct {
	gorm.Model
	Key   string `gorm:"column:key;type:varchar(100);uniqueIndex;not null" json:"key"`
	Value string `gorm:"column:value;type:varchar(255);not null" json:"setting_value"`
	// Free-form note shown in the admin panel.
	Description string `gorm:"column:description;type:varchar(255)" json:"description,omitempty"`
}

func (Setting) TableName() string { return "settings" }

type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	List(ctx context.Context) ([]*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}
