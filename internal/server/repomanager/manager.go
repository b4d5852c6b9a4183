package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
}
