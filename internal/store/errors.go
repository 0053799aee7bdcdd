package store

import "errors"

var (
	ErrInvalidUsername  = errors.New("username is blank")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrForbidden        = errors.New("not the author of this message")
	ErrNotEditable      = errors.New("message cannot be edited")
	ErrEmptyMessage     = errors.New("message has no content")
)
