package model

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to an Event. ParentID links one level of replies; a
// reply never has replies of its own.
type Comment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EventID  uint   `gorm:"not null;index" json:"event_id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	Body     string `gorm:"not null" json:"body"`
	Likes    int64  `gorm:"not null;default:0" json:"likes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Event     *Event     `gorm:"foreignKey:EventID" json:"-"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Replies   []Comment  `gorm:"foreignKey:ParentID" json:"-"`
	Reactions []Reaction `gorm:"foreignKey:CommentID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
