package model

import (
	"time"
)

// Participation is the join record between a User and an Event. It is
// independent from group membership: leaving an event never touches the
// group_user row.
type Participation struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`

	Participate bool `gorm:"not null;default:true" json:"participate"`
	IsCreator   bool `gorm:"not null;default:false" json:"is_creator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (Participation) TableName() string {
	return "event_user"
}
