package model

import (
	"time"
)

// Membership status values. A row is only ever stored as pending or
// approved: rejecting a pending membership deletes the row instead of
// keeping it around with StatusRejected, which exists as an accepted
// input value for the status-update endpoint.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Membership is the join record between a User and a Group. Invited
// distinguishes creator-issued invitations from self-service join
// requests; IsCreator is set once at group creation and never moves.
type Membership struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	GroupID uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	Status  string `gorm:"not null;default:pending" json:"status"`

	Invited   bool `gorm:"not null;default:false" json:"invited"`
	IsCreator bool `gorm:"not null;default:false" json:"is_creator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (Membership) TableName() string {
	return "group_user"
}

// IsRequest reports whether the row came from a self-service join request
// rather than a creator invitation.
func (m *Membership) IsRequest() bool {
	return !m.Invited
}
