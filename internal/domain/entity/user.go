package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root for the identity domain.
// PasswordHash is a bcrypt hash; the plaintext credential never reaches
// this type. CreatedAt/UpdatedAt are zero until the persistence boundary
// assigns them.
type User struct {
	ID           string
	Email        string
	Phone        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a fresh aggregate with a generated identifier.
// Timestamps are left unset; the repository fills them on create.
func NewUser(email, phone, passwordHash, firstName, lastName string) *User {
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
}
