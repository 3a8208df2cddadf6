// Package httpapi publishes the album collection as a JSON array over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/albumkeeper/internal/common"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/auth"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// AlbumLister is the part of albums.Service the router needs.
type AlbumLister interface {
	List(ctx context.Context) ([]models.Album, error)
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewRouter mounts GET /albums and GET /health. A non-empty secretKey puts
// /albums behind a bearer token.
func NewRouter(albums AlbumLister, logger logging.Logger, secretKey string) *chi.Mux {
	h := &handler{albums: albums, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/health", h.health)
	r.Group(func(r chi.Router) {
		if secretKey != "" {
			r.Use(bearerAuth([]byte(secretKey), logger))
		}
		r.Get(common.AlbumsPath, h.listAlbums)
	})
	return r
}

type handler struct {
	albums AlbumLister
	logger logging.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listAlbums(w http.ResponseWriter, r *http.Request) {
	items, err := h.albums.List(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list albums failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list albums"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func bearerAuth(secret []byte, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: common.ErrMissingToken.Error()})
				return
			}
			if _, err := auth.ValidateToken(token, secret); err != nil {
				logger.Warn(r.Context(), "rejected token", "path", r.URL.Path, "error", err)
				writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: common.ErrInvalidToken.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
