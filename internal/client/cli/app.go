package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/client"
	"github.com/dmitrijs2005/albumkeeper/internal/client/config"
	"github.com/dmitrijs2005/albumkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/albums"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/albumkeeper/internal/client/services"
	"github.com/dmitrijs2005/albumkeeper/internal/client/staleness"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// tokenSubject identifies the CLI in tokens sent to the album feed server.
const tokenSubject = "albumkeeper-cli"

// albumService is the part of services.AlbumService the commands use.
type albumService interface {
	SyncWithCache(ctx context.Context) <-chan services.SyncResult
	ObserveCachedAlbums(ctx context.Context) <-chan live.Update[[]models.Album]
	ForceRefresh(ctx context.Context) ([]models.Album, error)
	ToggleFavorite(ctx context.Context, id int) (bool, error)
	SetFavorite(ctx context.Context, id int, favorite bool) error
	ObserveFavoriteAlbums(ctx context.Context) <-chan live.Update[[]models.Album]
	GetAlbum(ctx context.Context, id int) (*models.Album, error)
	ObserveAlbum(ctx context.Context, id int) <-chan live.Update[*models.Album]
	HasCachedData(ctx context.Context) (bool, error)
	FetchRemote(ctx context.Context) ([]models.Album, error)
	Status(ctx context.Context) (*models.SyncStatus, error)
}

type App struct {
	config  *config.Config
	service albumService
	logger  logging.Logger
	reader  sdkmetric.Reader
	out     io.Writer
	closers []func() error
}

// NewApp wires the remote source, the local stores and the sync service
// described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, logger: logger.With("module", "cli"), out: os.Stdout}

	store, status, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := newRemote(ctx, c)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, remote.Close)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	a.closers = append(a.closers, func() error { return provider.Shutdown(context.Background()) })
	m, err := metrics.NewSyncMetrics(provider)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.reader = reader

	a.service = services.NewAlbumService(remote, store,
		services.WithLogger(logger),
		services.WithPolicy(staleness.Policy{Threshold: c.CacheTTL, Now: time.Now}),
		services.WithMetrics(m),
		services.WithStatusStore(status),
		services.WithSingleFlight(c.SingleFlight),
		services.WithPreserveFavorites(c.PreserveFavorites),
	)
	return a, nil
}

func (a *App) openStores(ctx context.Context) (albums.Repository, syncstate.Repository, error) {
	if a.config.Store == config.StoreMemory {
		return albums.NewMemoryRepository(), syncstate.NewMemoryRepository(), nil
	}

	db, err := client.InitDatabase(ctx, a.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	return albums.NewSQLiteRepository(db), syncstate.NewSQLiteRepository(db), nil
}

func newRemote(ctx context.Context, c *config.Config) (client.Client, error) {
	var tokens client.TokenSource
	if c.AuthSecret != "" {
		tokens = client.NewJWTSource(c.AuthSecret, tokenSubject, 5*time.Minute)
	}

	switch c.RemoteKind {
	case config.RemoteHTTP:
		return client.NewHTTPClient(c.RemoteURL, c.RequestTimeout, tokens), nil
	case config.RemoteGRPC:
		return client.NewGRPCClient(c.GRPCAddr, c.RequestTimeout, tokens)
	case config.RemoteS3:
		return client.NewS3Client(ctx, client.S3Config{
			Bucket:       c.S3Bucket,
			Key:          c.S3Key,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		}, c.RequestTimeout)
	default:
		return nil, fmt.Errorf("unknown remote kind %q", c.RemoteKind)
	}
}

// Run starts the REPL on stdin and blocks until the user exits or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error(ctx, "failed to close app", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to albumkeeper (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) prompt() string {
	return fmt.Sprintf("(%s/%s)", a.config.RemoteKind, a.config.Store)
}

// Close releases everything NewApp opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
