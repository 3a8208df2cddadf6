package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/client"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/auth"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	items []models.Album
	err   error
}

func (f *fakeLister) List(context.Context) ([]models.Album, error) {
	return f.items, f.err
}

var published = []models.Album{
	{AlbumID: 1, ID: 1, Title: "accusamus beatae", URL: "https://via.placeholder.com/600/92c952", ThumbnailURL: "https://via.placeholder.com/150/92c952"},
	{AlbumID: 1, ID: 2, Title: "reprehenderit est", URL: "https://via.placeholder.com/600/771796", ThumbnailURL: "https://via.placeholder.com/150/771796"},
}

func TestListAlbums_JSONArray(t *testing.T) {
	r := NewRouter(&fakeLister{items: published}, logging.Nop(), "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/albums", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []models.Album
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, published, got)
}

func TestListAlbums_EmptyIsArray(t *testing.T) {
	r := NewRouter(&fakeLister{items: []models.Album{}}, logging.Nop(), "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/albums", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListAlbums_StoreError(t *testing.T) {
	r := NewRouter(&fakeLister{err: errors.New("db down")}, logging.Nop(), "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/albums", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to list albums"}`, rec.Body.String())
}

func TestListAlbums_BearerAuth(t *testing.T) {
	r := NewRouter(&fakeLister{items: published}, logging.Nop(), "secret")

	valid, err := auth.GenerateToken("cli", []byte("secret"), time.Minute)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("cli", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized, body: `{"error":"missing token"}`},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized, body: `{"error":"missing token"}`},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized, body: `{"error":"invalid token"}`},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized, body: `{"error":"invalid token"}`},
		{name: "valid", header: "Bearer " + valid, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/albums", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestHealthIsPublic(t *testing.T) {
	r := NewRouter(&fakeLister{}, logging.Nop(), "secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	r := NewRouter(&fakeLister{}, logging.Nop(), "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/albums", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// The album client must be able to read what the router serves.
func TestRouter_ServesAlbumClient(t *testing.T) {
	srv := httptest.NewServer(NewRouter(&fakeLister{items: published}, logging.Nop(), "secret"))
	defer srv.Close()

	c := client.NewHTTPClient(srv.URL+"/albums", time.Second, client.NewJWTSource("secret", "cli", time.Minute))
	defer c.Close()

	got, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "accusamus beatae", got[0].Title)

	anon := client.NewHTTPClient(srv.URL+"/albums", time.Second, nil)
	defer anon.Close()
	_, err = anon.FetchAll(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}
