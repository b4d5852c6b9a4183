package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/dbx"
)

// Repository persists bookmarks. A missing row is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, b *Bookmark) (*Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]*Bookmark, error)
	// LockByID reads the row with FOR UPDATE; use it inside a transaction.
	LockByID(ctx context.Context, id int64) (*Bookmark, error)
	GetOwned(ctx context.Context, id, userID int64) (*Bookmark, error)
	Update(ctx context.Context, id int64, patch Patch) (*Bookmark, error)
	DeleteOwned(ctx context.Context, id, userID int64) error
}

// RepositoryFactory binds a Repository to a connection or a transaction.
type RepositoryFactory func(db dbx.DBTX) Repository
