package admin

import (
	"errors"
	"fmt"

	"boattours/internal/domain/booking"
)

var (
	ErrNotFound           = fmt.Errorf("admin %w", booking.ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("admin account is deactivated")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", booking.ErrConflict)
	ErrSelfModification   = fmt.Errorf("%w: admins cannot delete, deactivate or demote themselves", booking.ErrConflict)
	ErrForbidden          = errors.New("insufficient permissions")
)
