package domain

import (
	"strings"
	"time"
)

// Password length bounds. The upper bound is bcrypt's practical limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// User represents a registered account. HashedPassword is never serialized;
// handlers return the PublicUser projection instead, so there is no way to
// leak the hash by forgetting to strip it.
type User struct {
	ID             uint      `gorm:"primaryKey"   json:"id"`
	Name           string    `gorm:"not null"     json:"name"`
	Email          string    `gorm:"uniqueIndex"  json:"email"`
	HashedPassword string    `gorm:"not null"     json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Tasks owned by this user. Deleting the user deletes its tasks.
	Tasks []Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// PublicUser is the client-facing projection of a User. It structurally
// cannot carry credential material.
type PublicUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ValidateEmail performs a basic structural check on an email address.
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	if dot <= 0 || dot == len(domainPart)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the plaintext password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}
