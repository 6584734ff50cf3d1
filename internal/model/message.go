package model

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GroupID uint   `gorm:"not null;index" json:"group_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Body    string `gorm:"not null" json:"body"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
