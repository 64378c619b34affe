package entity

import "time"

// Default role assigned to users on first login.
const RoleReader = "reader"

// User represents an authenticated application user.
// Users are keyed by email; re-login updates LastLoggedIn (and possibly the
// role) instead of creating a second record.
type User struct {
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL     string    `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastLoggedIn time.Time `bson:"last_loggedIn" json:"last_loggedIn"`
}
