// Package client contains the remote side of the album cache and the
// bootstrap of its local database.
//
// # Remote sources
//
// Client is the all-or-nothing contract the sync service depends on. Three
// implementations exist:
//   - HTTPClient reads a JSON array from a URL (the public photos feed by
//     default).
//   - GRPCClient calls ListAlbums on the album feed server.
//   - S3Client reads the same JSON array from an object store.
//
// A TokenSource such as JWTSource can be attached to the HTTP and gRPC
// clients.
//
// # Error Handling
//
// Every failure is a *TransportError naming its source. The wrapped error
// matches one of ErrUnavailable, ErrUnauthorized, ErrNotFound or ErrDecode
// via errors.Is when the cause is recognised.
//
// # Local database
//
// InitDatabase opens the SQLite cache with modernc.org/sqlite and applies
// the embedded goose migrations.
package client
