package users

import "time"

// User is a registered account. PasswordHash is the argon2id digest and
// never leaves the service layer.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patch lists profile fields to change; nil fields are left as they are.
type Patch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

func (p Patch) IsEmpty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil
}
