// Package cli provides the interactive album cache client.
//
// NewApp wires configuration, the local store, the remote source and the
// sync service; App.Run starts a REPL that blocks until the user exits.
// The commands mirror the screens of a gallery app: a list that syncs and
// follows the cache, album details, and a favorites list.
package cli
