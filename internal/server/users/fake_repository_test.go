package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
)

// memRepo is an in-memory Repository with a unique email constraint.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*User
	calls  int

	// err, when set, is returned by every call.
	err error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[int64]*User{}}
}

func (r *memRepo) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, &common.ConflictError{Field: "email"}
		}
	}
	r.nextID++
	cp := *user
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memRepo) Update(ctx context.Context, id int64, patch Patch) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Email == *patch.Email {
				return nil, &common.ConflictError{Field: "email"}
			}
		}
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = patch.LastName
	}
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
