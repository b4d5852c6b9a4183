package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "user_id", "title", "description", "link", "created_at", "updated_at"}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+bookmarks\s*\(user_id,\s*title,\s*description,\s*link\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	now := time.Now().UTC()
	mock.ExpectQuery(q).
		WithArgs(int64(1), "Go", nil, "https://go.dev").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	b, err := repo.Create(context.Background(), &Bookmark{UserID: 1, Title: "Go", Link: "https://go.dev"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*link,\s*created_at,\s*updated_at\s+FROM\s+bookmarks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
	now := time.Now().UTC()

	t.Run("rows", func(t *testing.T) {
		mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), int64(1), "a", "desc", "https://a", now, now).
			AddRow(int64(2), int64(1), "b", nil, "https://b", now, now))

		list, err := repo.ListByUser(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "desc", *list[0].Description)
		assert.Nil(t, list[1].Description)
	})

	t.Run("empty is not nil", func(t *testing.T) {
		mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows(cols))

		list, err := repo.ListByUser(context.Background(), 2)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnError(errors.New("db down"))

		_, err := repo.ListByUser(context.Background(), 3)
		require.ErrorContains(t, err, "db error")
	})
}

func TestLockByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+.+FROM\s+bookmarks\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE\s*$`

	mock.ExpectQuery(q).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)
	_, err := repo.LockByID(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+.+FROM\s+bookmarks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	now := time.Now().UTC()

	mock.ExpectQuery(q).WithArgs(int64(4), int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(4), int64(1), "a", nil, "https://a", now, now))

	b, err := repo.GetOwned(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.UserID)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+bookmarks\s+SET\s+title\s*=\s*COALESCE\(\$2,\s*title\),\s*description\s*=\s*COALESCE\(\$3,\s*description\),\s*link\s*=\s*COALESCE\(\$4,\s*link\),\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,.+updated_at\s*$`
	now := time.Now().UTC()

	title := "new"
	mock.ExpectQuery(q).WithArgs(int64(4), "new", nil, nil).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(4), int64(1), "new", nil, "https://a", now, now))

	b, err := repo.Update(context.Background(), 4, Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new", b.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+bookmarks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).WithArgs(int64(4), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteOwned(context.Background(), 4, 1))

	mock.ExpectExec(q).WithArgs(int64(4), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), 4, 2), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs(int64(5), int64(1)).WillReturnError(context.DeadlineExceeded)
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), 5, 1), common.ErrInfrastructure)
}
