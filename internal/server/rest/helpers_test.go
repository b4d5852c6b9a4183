package rest

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
	"github.com/dmitrijs2005/bookmarker/internal/server/users"
)

const testSecret = "test-secret"

// memUsers is an in-memory users.Repository that counts every call.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*users.User
	calls  int
}

func newMemUsers() *memUsers { return &memUsers{rows: map[int64]*users.User{}} }

func (r *memUsers) Create(ctx context.Context, u *users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, other := range r.rows {
		if other.Email == u.Email {
			return nil, &common.ConflictError{Field: "email"}
		}
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.rows {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsers) Update(ctx context.Context, id int64, p users.Patch) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Email != nil {
		for otherID, other := range r.rows {
			if otherID != id && other.Email == *p.Email {
				return nil, &common.ConflictError{Field: "email"}
			}
		}
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	out := *u
	return &out, nil
}

func (r *memUsers) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *memUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// fakeBookmarks implements BookmarkService with the ownership rules of
// bookmarks.Service.
type fakeBookmarks struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*bookmarks.Bookmark
	calls  int
	err    error
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{rows: map[int64]*bookmarks.Bookmark{}}
}

func (f *fakeBookmarks) Create(ctx context.Context, userID int64, in bookmarks.CreateInput) (*bookmarks.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	now := time.Now().UTC()
	b := &bookmarks.Bookmark{ID: f.nextID, UserID: userID, Title: in.Title, Description: in.Description, Link: in.Link, CreatedAt: now, UpdatedAt: now}
	f.rows[b.ID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) List(ctx context.Context, userID int64) ([]*bookmarks.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []*bookmarks.Bookmark{}
	for _, b := range f.rows {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBookmarks) Get(ctx context.Context, userID, id int64) (*bookmarks.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	b, ok := f.rows[id]
	if !ok || b.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) Edit(ctx context.Context, userID, id int64, p bookmarks.Patch) (*bookmarks.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	b, ok := f.rows[id]
	if !ok || b.UserID != userID {
		return nil, common.ErrForbidden
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = p.Description
	}
	if p.Link != nil {
		b.Link = *p.Link
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) Delete(ctx context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	b, ok := f.rows[id]
	if !ok || b.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBookmarks) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	srv       *Server
	tokens    *auth.TokenManager
	users     *memUsers
	bookmarks *fakeBookmarks
	logs      *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		EndpointAddrHTTP:            "127.0.0.1:0",
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: 15 * time.Minute,
		DatabaseTimeout:             time.Second,
		ShutdownTimeout:             time.Second,
	}

	var logs bytes.Buffer
	logger := logging.NewJSON(&logs, slog.LevelDebug)

	tokens := auth.NewTokenManager([]byte(testSecret), cfg.AccessTokenValidityDuration)
	hasher := auth.NewHasher(auth.HashParams{MemoryKiB: 64, Iterations: 1, Parallelism: 1}, 2)

	ur := newMemUsers()
	bs := newFakeBookmarks()

	us := users.NewService(ur, hasher, tokens, cfg)
	return &testEnv{
		srv:       NewServer(cfg, logger, us, bs, tokens),
		tokens:    tokens,
		users:     ur,
		bookmarks: bs,
		logs:      &logs,
	}
}

// bearer issues a valid token for userID.
func (e *testEnv) bearer(t *testing.T, userID int64, email string) string {
	t.Helper()
	tok, err := e.tokens.Issue(userID, email)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return "Bearer " + tok
}
