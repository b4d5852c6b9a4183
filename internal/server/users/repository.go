package users

import (
	"context"
)

// Repository persists users. Implementations report a missing row as
// common.ErrorNotFound and a taken email as an error matching
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, id int64, patch Patch) (*User, error)
}
