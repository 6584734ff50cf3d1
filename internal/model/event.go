package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EventStatusActive   = "active"
	EventStatusReported = "reported"
	EventStatusCanceled = "canceled"
)

type Event struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`
	Location    string    `json:"location"`
	Status      string    `gorm:"not null;default:active" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Group          *Group          `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Participations []Participation `gorm:"foreignKey:EventID" json:"-"`
	Comments       []Comment       `gorm:"foreignKey:EventID" json:"-"`
	Images         []Image         `gorm:"foreignKey:EventID" json:"-"`
}

func (Event) TableName() string {
	return "events"
}
