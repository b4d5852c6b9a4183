// Package server initializes and runs the bookmarker application: it opens
// the database, applies migrations, wires services and serves HTTP until
// the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
	"github.com/dmitrijs2005/bookmarker/internal/server/repomanager"
	"github.com/dmitrijs2005/bookmarker/internal/server/rest"
	"github.com/dmitrijs2005/bookmarker/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	server *rest.Server
}

// openDB is a seam for tests.
var openDB = repomanager.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, parseLevel(c.LogLevel))

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "JWT secret is the development default; set JWT_SECRET in production")
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := auth.NewHasher(auth.HashParams{
		MemoryKiB:   c.Argon2MemoryKiB,
		Iterations:  c.Argon2Iterations,
		Parallelism: c.Argon2Parallelism,
	}, c.HashWorkers)

	us := users.NewService(rm.Users(db), hasher, tokens, c)
	bs := bookmarks.NewService(db, rm.Bookmarks, c)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		repos:  rm,
		server: rest.NewServer(c, logger, us, bs, tokens),
	}, nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies migrations and serves until ctx is done or a termination
// signal arrives. The database is closed on return.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped with error", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
