package chathub

import (
	"errors"

	"omnichat/backend/internal/store"
)

// Error codes carried on the "error" event.
const (
	CodeValidation    = "validation_error"
	CodeNotAuthorized = "not_authorized"
	CodeNotFound      = "not_found"
	CodeStateConflict = "state_conflict"
	CodeNoPartner     = "no_partner"
)

// codeFor maps store errors onto the wire error codes.
func codeFor(err error) string {
	switch {
	case errors.Is(err, store.ErrForbidden):
		return CodeNotAuthorized
	case errors.Is(err, store.ErrMessageNotFound),
		errors.Is(err, store.ErrRoomNotFound),
		errors.Is(err, store.ErrIdentityNotFound):
		return CodeNotFound
	case errors.Is(err, store.ErrNotEditable):
		return CodeStateConflict
	default:
		return CodeValidation
	}
}
