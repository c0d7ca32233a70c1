package dto

import "time"

// UserPayload is the public projection of a user returned by signup and login.
// The password hash is never part of a response body.
type UserPayload struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// AuthResponse is the success body for /signup and /login.
type AuthResponse struct {
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
	Token   string      `json:"token"`
}

// MessageResponse is a plain message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a user-facing message and, for unexpected failures,
// the underlying error detail.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ProfileData is the authenticated user's profile returned by /me.
type ProfileData struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileResponse is the success body for /me.
type ProfileResponse struct {
	Success bool        `json:"success"`
	Data    ProfileData `json:"data"`
}
