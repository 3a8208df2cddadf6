// Package server wires the album feed: it opens the store, seeds it, and
// runs the HTTP and gRPC endpoints until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/albums"
	"github.com/dmitrijs2005/albumkeeper/internal/server/config"
	"github.com/dmitrijs2005/albumkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/albumkeeper/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/albumkeeper/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service *albums.Service
}

// openDB is a seam for tests.
var openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}

	var repo albums.Repository
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "no database configured, keeping albums in memory")
		repo = albums.NewMemoryRepository()
	} else {
		db, err := openDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.db = db
		repo = albums.NewPostgresRepository(db)
	}

	app.service = albums.NewService(repo, logger)

	if c.SeedFile != "" {
		if _, err := app.service.Seed(ctx, c.SeedFile); err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	return app, nil
}

// Run serves until ctx is cancelled or one endpoint fails, which stops the
// other.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	if app.config.HTTPAddr != "" {
		router := httpapi.NewRouter(app.service, app.logger, app.config.SecretKey)
		s := httpapi.NewServer(app.config.HTTPAddr, router, app.logger)
		g.Go(func() error { return s.Run(ctx) })
	}
	if app.config.GRPCAddr != "" {
		s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.service, app.config.SecretKey)
		g.Go(func() error { return s.Run(ctx) })
	}

	err := g.Wait()
	if cerr := app.Close(); cerr != nil {
		app.logger.Error(ctx, "failed to close database", "error", cerr)
	}
	return err
}

func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}
