package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
)

type CreateInput struct {
	Title       string
	Description *string
	Link        string
}

// Service manages bookmarks on behalf of their owner. Every method takes
// the caller's user id; other users' bookmarks are never returned.
type Service struct {
	db        dbx.DB
	repos     RepositoryFactory
	dbTimeout time.Duration
}

func NewService(db dbx.DB, repos RepositoryFactory, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		repos:     repos,
		dbTimeout: cfg.DatabaseTimeout,
	}
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*Bookmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b, err := s.repos(s.db).Create(ctx, &Bookmark{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Bookmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repos(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return list, nil
}

// Get returns common.ErrorNotFound for bookmarks that are absent or owned by someone else.
func (s *Service) Get(ctx context.Context, userID, id int64) (*Bookmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b, err := s.repos(s.db).GetOwned(ctx, id, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return b, nil
}

// Edit locks the bookmark, checks ownership and applies patch in one
// transaction. Absent and foreign bookmarks both yield common.ErrForbidden.
func (s *Service) Edit(ctx context.Context, userID, id int64, patch Patch) (*Bookmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *Bookmark
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos(tx)

		b, err := repo.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrForbidden
			}
			return err
		}
		if b.UserID != userID {
			return common.ErrForbidden
		}

		updated, err = repo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// Delete returns common.ErrorNotFound for bookmarks that are absent or owned by someone else.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repos(s.db).DeleteOwned(ctx, id, userID); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.dbTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.dbTimeout)
}

// storeError passes domain sentinels through and reports everything else
// as an infrastructure failure.
func storeError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrInfrastructure):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrInfrastructure, err)
}
