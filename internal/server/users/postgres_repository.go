package users

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (email, hash, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, dbx.MapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, email, hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE email = $1
		 `

	return r.scanOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query :=
		`SELECT id, email, hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE id = $1
		 `

	return r.scanOne(ctx, query, id)
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch Patch) (*User, error) {
	query :=
		`UPDATE users SET
		   email = COALESCE($2, email),
		   first_name = COALESCE($3, first_name),
		   last_name = COALESCE($4, last_name),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, hash, first_name, last_name, created_at, updated_at
		 `

	return r.scanOne(ctx, query, id, patch.Email, patch.FirstName, patch.LastName)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	user := &User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, dbx.MapError(err)
	}

	return user, nil
}
