package repository

import (
	"errors"
	"fmt"
)

// ErrPendingApplicationExists signals that the user already holds a
// pending role application.
var ErrPendingApplicationExists = errors.New("pending application exists")

// ErrNotApplicant signals that the caller does not own the application.
var ErrNotApplicant = errors.New("application belongs to another user")

// ErrRoleMissing signals that a requested role name has no role row.
var ErrRoleMissing = errors.New("requested role not found")

// StatusConflictError is returned when a row-locked precondition re-read
// finds the row in a state the operation does not accept. Current carries
// the status observed inside the transaction.
type StatusConflictError struct {
	Current string
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("status conflict: current status is %s", e.Current)
}

// RoleCapacityError is returned when approving an application would push a
// role past its member limit.
type RoleCapacityError struct {
	Role string
	Max  int
}

func (e *RoleCapacityError) Error() string {
	return fmt.Sprintf("role %s has reached maximum users (%d)", e.Role, e.Max)
}
