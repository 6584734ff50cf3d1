package model

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"not null" json:"name"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Memberships []Membership `gorm:"foreignKey:GroupID" json:"-"`
	Events      []Event      `gorm:"foreignKey:GroupID" json:"-"`
	Messages    []Message    `gorm:"foreignKey:GroupID" json:"-"`
	Images      []Image      `gorm:"foreignKey:GroupID" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}
