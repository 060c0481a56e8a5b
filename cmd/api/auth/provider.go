package auth

import (
	"context"
	"errors"

	"techsphere/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserNotFound = errors.New("user not found")
)

// Identity is what a verified bearer token says about the caller.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Author returns the snapshot stored on content written by this identity.
func (i Identity) Author() models.Author {
	return models.Author{DisplayName: i.DisplayName, Email: i.Email}
}

// UserUpdate holds profile changes; empty fields are left untouched.
type UserUpdate struct {
	DisplayName string
	PhotoURL    string
}

func (u UserUpdate) Empty() bool { return u.DisplayName == "" && u.PhotoURL == "" }

// Provider abstracts the external identity service.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, upd UserUpdate) (*models.User, error)
}
