package user

import "errors"

// ErrUserNotFound is returned by repositories when no user has the requested ID.
var ErrUserNotFound = errors.New("user not found")

// User represents a user entity in the system.
type User struct {
	ID        int64  // ID is assigned by storage at insert time and never changes
	FirstName string
	LastName  string
	Email     string // Email is not required to be unique
}
