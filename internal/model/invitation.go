package model

import "time"

// Invitation is a pending registration token; registration itself is out
// of the core's scope, but the repository port names these operations.
type Invitation struct {
	Token     string    `json:"token" db:"token"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
