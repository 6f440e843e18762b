package models

import "time"

// LoginRequest is the credential payload sent to the sessions endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResult reports a successful login.
type LoginResult struct {
	Email string `json:"email"`
	// Response is the raw body returned by the sessions endpoint.
	Response Record `json:"response,omitempty"`
}

// SessionStatus describes the cached session token.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	JWT           bool       `json:"jwt"`
	Subject       string     `json:"subject,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}
