package model

import "time"

// User status values.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Status       int       `json:"status"`
	PasswordHash string    `json:"-"` // Never expose the hash in JSON responses
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserQuery holds optional filters for conditional user searches.
// Username and email match with LIKE, status with equality.
type UserQuery struct {
	Username string
	Email    string
	Status   *int
}
