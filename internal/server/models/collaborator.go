package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("invalid email format")
)

// Collaborator is a persisted roster entry. ID and CreatedAt are assigned by
// the store on insert and never change afterwards.
type Collaborator struct {
	ID        string
	Name      string
	Email     string
	City      string
	Company   string
	CreatedAt time.Time
}

// NewCollaborator is a collaborator that has not been stored yet.
type NewCollaborator struct {
	Name    string
	Email   string
	City    string
	Company string
}

// Validate checks the constraints the collaborators table enforces on
// name and email. City and company are free-form.
func (c NewCollaborator) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Email == "" {
		return ErrEmptyEmail
	}
	if !IsEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// IsEmail reports whether s is a bare addr-spec such as "a@b.example".
// Display-name forms like "Ann <a@b.example>" are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}
