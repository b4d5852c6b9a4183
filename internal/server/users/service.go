package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
)

// PasswordHasher is implemented by *auth.Hasher.
type PasswordHasher interface {
	Hash(ctx context.Context, p auth.Password) (string, error)
	Verify(ctx context.Context, digest string, p auth.Password) (bool, error)
	VerifyDummy(ctx context.Context, p auth.Password) error
}

// TokenIssuer is implemented by *auth.TokenManager.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

type SignUpInput struct {
	Email     string
	Password  auth.Password
	FirstName *string
	LastName  *string
}

type SignInInput struct {
	Email    string
	Password auth.Password
}

// Service registers and authenticates users and manages their profile.
type Service struct {
	repo      Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	dbTimeout time.Duration
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer, cfg *config.Config) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		dbTimeout: cfg.DatabaseTimeout,
	}
}

// SignUp stores a new account and returns an access token for it.
// The email is stored and issued exactly as submitted; addresses differing
// only in case are distinct accounts.
// A taken email yields *common.DuplicateError; the unique constraint in the
// store decides, there is no lookup beforehand.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (string, error) {

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return "", hasherError("hash password", err)
	}

	user := &User{
		Email:        in.Email,
		PasswordHash: digest,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	dbCtx, cancel := s.withTimeout(ctx)
	user, err = s.repo.Create(dbCtx, user)
	cancel()
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", duplicateError(err)
		}
		return "", infrastructureError(err)
	}

	return s.issue(user)
}

// SignIn checks the credentials and returns an access token. Unknown email
// and wrong password fail identically with common.ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (string, error) {

	dbCtx, cancel := s.withTimeout(ctx)
	user, err := s.repo.GetByEmail(dbCtx, in.Email)
	cancel()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if err := s.hasher.VerifyDummy(ctx, in.Password); err != nil {
				return "", hasherError("verify password", err)
			}
			return "", common.ErrInvalidCredentials
		}
		return "", infrastructureError(err)
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, in.Password)
	if err != nil {
		return "", hasherError(fmt.Sprintf("verify password for user %d", user.ID), err)
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me returns the profile of the given user.
func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.repo.GetByID(dbCtx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, infrastructureError(err)
	}
	return user, nil
}

// Edit applies patch to the user's profile and returns the result.
func (s *Service) Edit(ctx context.Context, userID int64, patch Patch) (*User, error) {
	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.repo.Update(dbCtx, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, duplicateError(err)
		}
		return nil, infrastructureError(err)
	}
	return user, nil
}

func (s *Service) issue(user *User) (string, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.dbTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.dbTimeout)
}

func duplicateError(err error) error {
	field := "email"
	var conflict *common.ConflictError
	if errors.As(err, &conflict) && conflict.Field != "" {
		field = conflict.Field
	}
	return &common.DuplicateError{Fields: []string{field}}
}

func infrastructureError(err error) error {
	if errors.Is(err, common.ErrInfrastructure) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrInfrastructure, err)
}

// hasherError keeps a corrupt stored digest distinguishable and reports any
// other hashing failure as the subsystem being unavailable.
func hasherError(op string, err error) error {
	if errors.Is(err, auth.ErrMalformedHash) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, infrastructureError(err))
}
