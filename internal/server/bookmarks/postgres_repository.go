package bookmarks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, user_id, title, description, link, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row scanner) (*Bookmark, error) {
	b := &Bookmark{}
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *Bookmark) (*Bookmark, error) {

	query :=
		`INSERT INTO bookmarks (user_id, title, description, link)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		b.UserID, b.Title, b.Description, b.Link).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return nil, dbx.MapError(err)
	}

	return b, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*Bookmark, error) {
	query :=
		`SELECT ` + columns + ` FROM bookmarks
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := make([]*Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) LockByID(ctx context.Context, id int64) (*Bookmark, error) {
	query :=
		`SELECT ` + columns + ` FROM bookmarks
		 WHERE id = $1
		 FOR UPDATE
		 `

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return b, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, userID int64) (*Bookmark, error) {
	query :=
		`SELECT ` + columns + ` FROM bookmarks
		 WHERE id = $1 AND user_id = $2
		 `

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return b, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch Patch) (*Bookmark, error) {
	query :=
		`UPDATE bookmarks SET
		   title = COALESCE($2, title),
		   description = COALESCE($3, description),
		   link = COALESCE($4, link),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns + `
		 `

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Description, patch.Link))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return b, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	query :=
		`DELETE FROM bookmarks
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return dbx.MapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
