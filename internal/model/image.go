package model

import (
	"time"
)

// Image is owned by exactly one of User, Group or Event through the
// corresponding nullable foreign key. OwnerID is the uploading user and
// is the only thing delete authorization looks at. The bytes live in
// object storage under ObjectName; URL is the public address.
type Image struct {
	ID uint `gorm:"primaryKey" json:"id"`

	URL        string `gorm:"not null" json:"url"`
	ObjectName string `gorm:"not null" json:"-"`
	OwnerID    uint   `gorm:"not null;index" json:"owner_id"`

	UserID  *uint `gorm:"index" json:"user_id,omitempty"`
	GroupID *uint `gorm:"index" json:"group_id,omitempty"`
	EventID *uint `gorm:"index" json:"event_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Image) TableName() string {
	return "images"
}
