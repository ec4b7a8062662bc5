package model

import "time"

// User mirrors an identity-provider subject locally. Authentication happens at
// the provider; we store the opaque subject id plus marketplace-side fields.
type User struct {
	ID           string // identity-provider subject
	Phone        string
	Email        string
	Name         string
	IsAdmin      bool // per-user role flag consulted by the authorizer
	RegisteredAt time.Time
}
