package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex:idx_users_username;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // never serialized
	Avatar       string    `gorm:"type:varchar(512);not null;default:''" json:"avatar"`
	CreatedAt    time.Time `gorm:"index;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName maps User to its table
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id when the caller did not.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='startup directory accounts'").
		AutoMigrate(&User{})
}
