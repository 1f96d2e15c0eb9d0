package domain

import (
	"errors"
	"strings"
	"time"
)

// User is a wallet holder. Username is the sign-in email.
type User struct {
	ID             string
	Username       string
	FirstName      string
	LastName       string
	Phone          string
	HashedPassword string
	AcceptedTerms  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns the name shown to counterparties.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
