package user

// CreateUserRequest represents the request payload for creating a new user.
// All three fields must be present and non-empty.
type CreateUserRequest struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID int64
}

// GetUserRequest represents the request payload for reading a single user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for a single user.
type GetUserResponse struct {
	User User
}

// UpdateUserRequest represents the request payload for updating an existing user.
// A nil field is left untouched; a non-nil field overwrites the stored value,
// including with the empty string.
type UpdateUserRequest struct {
	ID        int64
	FirstName *string
	LastName  *string
	Email     *string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}
