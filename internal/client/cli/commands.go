package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/client/services"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
)

var errUsage = errors.New("usage")

const defaultWatch = 10 * time.Second

// first takes the current value of a live stream and detaches from it.
func first[T any](ctx context.Context, open func(context.Context) <-chan live.Update[T]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var zero T
	select {
	case u, ok := <-open(ctx):
		if !ok {
			return zero, ctx.Err()
		}
		return u.Value, u.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func parseID(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return id, nil
}

// List prints the cached albums, optionally only the first n.
func (a *App) List(ctx context.Context, args []string) error {
	limit := -1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: list [limit]", errUsage)
		}
		limit = n
	}

	items, err := first(ctx, a.service.ObserveCachedAlbums)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No albums cached yet. Run 'sync'.")
		return nil
	}

	width := terminalWidth()
	for i, item := range items {
		if limit >= 0 && i >= limit {
			fmt.Fprintf(a.out, "... %d more\n", len(items)-limit)
			break
		}
		fmt.Fprintln(a.out, formatAlbum(item, width))
	}
	return nil
}

// Sync runs the cache protocol and prints every state it passes through.
func (a *App) Sync(ctx context.Context) error {
	fmt.Fprintln(a.out, "Loading...")
	for r := range a.service.SyncWithCache(ctx) {
		a.printSyncResult(r)
	}
	return nil
}

func (a *App) printSyncResult(r services.SyncResult) {
	if r.Err != nil {
		fmt.Fprintln(a.out, errorMessage(r.Err))
		return
	}
	fmt.Fprintf(a.out, "Loaded %d albums from %s\n", len(r.Albums), r.Origin)
}

func (a *App) Refresh(ctx context.Context) error {
	items, err := a.service.ForceRefresh(ctx)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err))
		return nil
	}
	fmt.Fprintf(a.out, "Refreshed %d albums\n", len(items))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}

	item, err := first(ctx, func(ctx context.Context) <-chan live.Update[*models.Album] {
		return a.service.ObserveAlbum(ctx, id)
	})
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Fprintf(a.out, "Album %d not found\n", id)
		return nil
	}
	fmt.Fprintln(a.out, formatDetails(*item))
	return nil
}

// Fav toggles the favorite flag of one album.
func (a *App) Fav(ctx context.Context, args []string) error {
	id, err := parseID(args, "fav <id>")
	if err != nil {
		return err
	}

	fav, err := a.service.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	if fav {
		fmt.Fprintf(a.out, "Album %d is now a favorite\n", id)
	} else {
		fmt.Fprintf(a.out, "Album %d is no longer a favorite\n", id)
	}
	return nil
}

func (a *App) SetFav(ctx context.Context, args []string) error {
	const usage = "setfav <id> <true|false>"
	id, err := parseID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	fav, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	if err := a.service.SetFavorite(ctx, id, fav); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Album %d favorite: %t\n", id, fav)
	return nil
}

func (a *App) Favs(ctx context.Context) error {
	items, err := first(ctx, a.service.ObserveFavoriteAlbums)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
		return nil
	}
	width := terminalWidth()
	for _, item := range items {
		fmt.Fprintln(a.out, formatAlbum(item, width))
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.service.Status(ctx)
	if err != nil {
		return err
	}
	has, err := a.service.HasCachedData(ctx)
	if err != nil {
		return err
	}

	phase := string(st.Phase)
	if phase == "" {
		phase = "never synced"
	}
	fmt.Fprintf(a.out, "Phase:         %s\n", phase)
	if st.Message != "" {
		fmt.Fprintf(a.out, "Last error:    %s\n", st.Message)
	}
	fmt.Fprintf(a.out, "Last attempt:  %s\n", formatTime(st.LastAttempt))
	fmt.Fprintf(a.out, "Failures:      %d\n", st.AttemptCount)
	fmt.Fprintf(a.out, "Last sync:     %s\n", formatTime(st.LastSyncTime))
	fmt.Fprintf(a.out, "Albums:        %d\n", st.AlbumCount)
	if st.LastSyncHash != "" {
		fmt.Fprintf(a.out, "Content hash:  %s\n", st.LastSyncHash)
	}
	fmt.Fprintf(a.out, "Cached data:   %t\n", has)
	return nil
}

func (a *App) Metrics(ctx context.Context) error {
	if a.reader == nil {
		fmt.Fprintln(a.out, "Metrics are disabled")
		return nil
	}
	points, err := metrics.Collect(ctx, a.reader)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintln(a.out, "No metrics recorded yet")
		return nil
	}
	for _, p := range points {
		fmt.Fprintln(a.out, p.String())
	}
	return nil
}

// Remote fetches the remote collection without caching it.
func (a *App) Remote(ctx context.Context) error {
	items, err := a.service.FetchRemote(ctx)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err))
		return nil
	}
	fmt.Fprintf(a.out, "Remote has %d albums\n", len(items))
	return nil
}

// Watch runs a sync while following the cache, like a list screen does,
// for the given number of seconds.
func (a *App) Watch(ctx context.Context, args []string) error {
	d := defaultWatch
	if len(args) > 0 {
		secs, err := strconv.Atoi(args[0])
		if err != nil || secs <= 0 {
			return fmt.Errorf("%w: watch [seconds]", errUsage)
		}
		d = time.Duration(secs) * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	fmt.Fprintln(a.out, "[sync] loading")
	results := a.service.SyncWithCache(ctx)
	cached := a.service.ObserveCachedAlbums(ctx)

	for results != nil || cached != nil {
		select {
		case r, ok := <-results:
			if !ok {
				fmt.Fprintln(a.out, "[sync] done")
				results = nil
				continue
			}
			if r.Err != nil {
				fmt.Fprintln(a.out, "[sync] "+errorMessage(r.Err))
				continue
			}
			fmt.Fprintf(a.out, "[sync] %d albums from %s\n", len(r.Albums), r.Origin)

		case u, ok := <-cached:
			if !ok {
				cached = nil
				continue
			}
			if u.Err != nil {
				fmt.Fprintln(a.out, "[cache] "+errorMessage(u.Err))
				continue
			}
			favs := 0
			for _, item := range u.Value {
				if item.IsFavorite {
					favs++
				}
			}
			fmt.Fprintf(a.out, "[cache] %d albums, %d favorites\n", len(u.Value), favs)

		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
