package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  (l)ist [limit]          list cached albums
  sync                    serve the cache, refresh it when stale
  refresh                 refresh the cache now
  show <id>               show one album
  fav <id>                toggle the favorite flag
  setfav <id> <bool>      set the favorite flag
  favs                    list favorite albums
  status                  show the sync history
  metrics                 show sync metrics
  remote                  fetch the remote collection without caching it
  watch [seconds]         sync while following cache changes
  exit | quit             leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	SetFav(ctx context.Context, args []string) error
	Favs(ctx context.Context) error
	Status(ctx context.Context) error
	Metrics(ctx context.Context) error
	Remote(ctx context.Context) error
	Watch(ctx context.Context, args []string) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit", or until ctx is done. Handler errors are printed and
// the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("albums %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "l", "list":
			err = a.List(ctx, args)
		case "sync":
			err = a.Sync(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "show":
			err = a.Show(ctx, args)
		case "fav":
			err = a.Fav(ctx, args)
		case "setfav":
			err = a.SetFav(ctx, args)
		case "favs":
			err = a.Favs(ctx)
		case "status":
			err = a.Status(ctx)
		case "metrics":
			err = a.Metrics(ctx)
		case "remote":
			err = a.Remote(ctx)
		case "watch":
			err = a.Watch(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
