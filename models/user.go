package models

import "time"

// User is a read-only projection of an identity-provider record.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Snapshot copies the identity fields that blogs and comments keep inline.
func (u User) Snapshot() Author {
	return Author{DisplayName: u.DisplayName, PhotoURL: u.PhotoURL, Email: u.Email}
}
