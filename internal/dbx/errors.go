package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column from "Key (email)=(a@x.com) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapError translates driver errors into the sentinels from package common:
//   - sql.ErrNoRows → common.ErrorNotFound
//   - unique violation → *common.ConflictError (matches common.ErrorAlreadyExists)
//   - context deadline/cancel → common.ErrInfrastructure
//
// Everything else is wrapped as "db error" and returned.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", common.ErrInfrastructure, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &common.ConflictError{Field: conflictField(pgErr), Err: err}
	}

	return fmt.Errorf("db error: %w", err)
}

func conflictField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	// users_email_key → email
	name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return ""
}
