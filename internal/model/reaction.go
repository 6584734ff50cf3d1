package model

import (
	"time"
)

// Reaction records a single user's reaction to a comment. At most one
// row may exist per (user, comment) pair.
type Reaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CommentID uint   `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	Emoji     string `json:"emoji"`

	CreatedAt time.Time `json:"created_at"`

	Comment *Comment `gorm:"foreignKey:CommentID" json:"-"`
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Reaction) TableName() string {
	return "reactions"
}
