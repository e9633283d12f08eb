package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Avatar    string `json:"avatar"`

	// Password reset state; empty/nil when no reset is pending
	ResetPasswordToken string     `json:"-"`
	TokenExpires       *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
