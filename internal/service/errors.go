package service

import (
	"errors"
	"fmt"
)

// Category sentinels. Every service error wraps exactly one of these so
// handlers can map it to a transport status with a single errors.Is
// switch. Services never catch-and-suppress; failures travel up as-is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrGroupNotFound      = fmt.Errorf("group %w", ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("event %w", ErrNotFound)
	ErrCommentNotFound    = fmt.Errorf("comment %w", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("message %w", ErrNotFound)
	ErrImageNotFound      = fmt.Errorf("image %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrMembershipNotFound = fmt.Errorf("membership %w", ErrNotFound)

	ErrAlreadyInvited = fmt.Errorf("%w: you are already invited by the creator of this group", ErrConflict)
	ErrAlreadyPending = fmt.Errorf("%w: you already requested to join this group", ErrConflict)
	ErrAlreadyMember  = fmt.Errorf("%w: you are already a member of this group", ErrConflict)
	ErrAlreadyReacted = fmt.Errorf("%w: you already reacted to this comment", ErrConflict)

	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrTokenNotRefreshable = errors.New("token cannot be refreshed")
)
