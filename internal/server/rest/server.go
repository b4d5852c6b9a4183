// Package rest exposes the bookmarker services over HTTP+JSON.
package rest

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
	"github.com/dmitrijs2005/bookmarker/internal/server/users"
	"golang.org/x/sync/errgroup"
)

// UserService is implemented by *users.Service.
type UserService interface {
	SignUp(ctx context.Context, in users.SignUpInput) (string, error)
	SignIn(ctx context.Context, in users.SignInInput) (string, error)
	Me(ctx context.Context, userID int64) (*users.User, error)
	Edit(ctx context.Context, userID int64, patch users.Patch) (*users.User, error)
}

// BookmarkService is implemented by *bookmarks.Service.
type BookmarkService interface {
	Create(ctx context.Context, userID int64, in bookmarks.CreateInput) (*bookmarks.Bookmark, error)
	List(ctx context.Context, userID int64) ([]*bookmarks.Bookmark, error)
	Get(ctx context.Context, userID, id int64) (*bookmarks.Bookmark, error)
	Edit(ctx context.Context, userID, id int64, patch bookmarks.Patch) (*bookmarks.Bookmark, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TokenParser is implemented by *auth.TokenManager.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           UserService
	bookmarks       BookmarkService
	tokens          TokenParser
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, bs BookmarkService, tokens TokenParser) *Server {
	return &Server{
		address:         cfg.EndpointAddrHTTP,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          l.With("module", "http_server"),
		users:           us,
		bookmarks:       bs,
		tokens:          tokens,
	}
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	h = s.recoverPanics(h)
	h = s.logRequests(h)
	h = s.requestID(h)
	return h
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		// Serve always returns a non-nil error; ErrServerClosed after Shutdown.
		if err := srv.Serve(listen); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
