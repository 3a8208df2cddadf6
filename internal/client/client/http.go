package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
)

const (
	DefaultTimeout = 15 * time.Second
	UserAgent      = "albumkeeper/1.0"
)

// HTTPClient reads the collection as a JSON array from a single URL.
type HTTPClient struct {
	url    string
	client *http.Client
	tokens TokenSource
}

// NewHTTPClient creates a client for url. A zero timeout means
// DefaultTimeout; tokens may be nil for public endpoints.
func NewHTTPClient(url string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		tokens: tokens,
	}
}

func (c *HTTPClient) FetchAll(ctx context.Context) ([]models.Album, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, transportErr(SourceHTTP, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, transportErr(SourceHTTP, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, transportErr(SourceHTTP, err)
		}
		return nil, transportErr(SourceHTTP, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := statusError(resp); err != nil {
		return nil, transportErr(SourceHTTP, err)
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, transportErr(SourceHTTP, fmt.Errorf("%w: response of %d bytes exceeds %d", ErrDecode, resp.ContentLength, MaxResponseSize))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, transportErr(SourceHTTP, fmt.Errorf("%w: failed to read response body: %w", ErrUnavailable, err))
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, transportErr(SourceHTTP, fmt.Errorf("%w: response exceeds %d bytes", ErrDecode, MaxResponseSize))
	}

	albums, err := decodeAlbums(body)
	if err != nil {
		return nil, transportErr(SourceHTTP, err)
	}
	return albums, nil
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Status)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
