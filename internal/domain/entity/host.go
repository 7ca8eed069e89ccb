package entity

import (
	"strings"
	"time"
)

// Host is a property owner account.
type Host struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewHost validates and builds a host. The password must already be hashed.
func NewHost(id, email, passwordHash, firstName, lastName, phone string) (*Host, error) {
	if id == "" {
		return nil, ErrInvalidHostID
	}
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrMissingHostNames
	}

	now := time.Now().UTC()
	return &Host{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lower-cases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
