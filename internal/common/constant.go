// Package common contains names shared by the album feed server and its
// clients.
package common

// AuthorizationHeader carries "Bearer <token>" on HTTP requests and the bare
// token in gRPC metadata.
const AuthorizationHeader = "authorization"

const (
	AlbumServiceName = "albumkeeper.v1.AlbumService"
	ListAlbumsMethod = "/" + AlbumServiceName + "/ListAlbums"
)

// AlbumsPath is the HTTP route serving the album collection.
const AlbumsPath = "/albums"
