// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and a mapper from
// driver errors to the common sentinel errors.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// DB is what services hold: plain queries plus transactions. *sql.DB satisfies it.
type DB interface {
	DBTX
	TxBeginner
}

// WithTx runs fn in one transaction on db. The bookmark edit path relies on
// it: the row is read with SELECT ... FOR UPDATE, its owner is checked and
// the update is written before any other editor can touch the row.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := repos(tx)
//	    b, err := repo.LockByID(ctx, id)
//	    ...
//	    _, err = repo.Update(ctx, id, patch)
//	    return err
//	})
//
// fn's error is returned as is and rolls the transaction back; so does a
// panic, which is re-raised afterwards. Begin and commit failures go
// through MapError, so a deadline hit there reads as common.ErrInfrastructure.
func WithTx(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return MapError(fmt.Errorf("begin tx: %w", err))
	}

	defer func() {
		p := recover()
		if p != nil || err != nil {
			_ = tx.Rollback()
			if p != nil {
				panic(p)
			}
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = MapError(fmt.Errorf("commit tx: %w", cerr))
		}
	}()

	return fn(ctx, tx)
}
