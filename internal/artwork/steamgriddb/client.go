package steamgriddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://www.steamgriddb.com/api/v2"

// maxDownloadBytes bounds a single image download.
const maxDownloadBytes = 64 << 20

// Game is one autocomplete match.
type Game struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Verified bool     `json:"verified"`
}

// Image describes one asset listed for a game.
type Image struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Thumb  string `json:"thumb"`
	Mime   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Style  string `json:"style"`
}

type envelope[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
}

// ImageQuery narrows an image listing.
type ImageQuery struct {
	Dimensions []string
	Types      []string
	Mimes      []string
}

func (q ImageQuery) values() url.Values {
	params := url.Values{}
	if len(q.Dimensions) > 0 {
		params.Set("dimensions", strings.Join(q.Dimensions, ","))
	}
	if len(q.Types) > 0 {
		params.Set("types", strings.Join(q.Types, ","))
	}
	if len(q.Mimes) > 0 {
		params.Set("mimes", strings.Join(q.Mimes, ","))
	}
	return params
}

// Catalog is the subset of the API used by the artwork pipeline.
type Catalog interface {
	SearchAutocomplete(ctx context.Context, term string) ([]Game, error)
	Grids(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error)
	Heroes(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error)
	Logos(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error)
	Icons(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error)
	Download(ctx context.Context, imageURL string) ([]byte, error)
}

// Client talks to SteamGridDB with a bearer token.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// StatusError reports a non-200 API response.
type StatusError struct {
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("returned %d (latency=%v)", e.StatusCode, e.Latency)
}

// Unauthorized reports whether the API rejected the key.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// New creates a SteamGridDB client. An empty baseURL selects DefaultBaseURL.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("steamgriddb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchAutocomplete returns the games whose titles match term, best first.
func (c *Client) SearchAutocomplete(ctx context.Context, term string) ([]Game, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term must not be empty")
	}
	var games []Game
	if err := c.get(ctx, "/search/autocomplete/"+url.PathEscape(term), nil, &games); err != nil {
		return nil, fmt.Errorf("steamgriddb search: %w", err)
	}
	return games, nil
}

// Grids lists capsule images for a game.
func (c *Client) Grids(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error) {
	return c.images(ctx, "grids", gameID, query)
}

// Heroes lists banner images for a game.
func (c *Client) Heroes(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error) {
	return c.images(ctx, "heroes", gameID, query)
}

// Logos lists transparent logos for a game.
func (c *Client) Logos(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error) {
	return c.images(ctx, "logos", gameID, query)
}

// Icons lists icons for a game.
func (c *Client) Icons(ctx context.Context, gameID int64, query ImageQuery) ([]Image, error) {
	return c.images(ctx, "icons", gameID, query)
}

func (c *Client) images(ctx context.Context, kind string, gameID int64, query ImageQuery) ([]Image, error) {
	if gameID <= 0 {
		return nil, errors.New("game id must be positive")
	}
	var images []Image
	path := fmt.Sprintf("/%s/game/%d", kind, gameID)
	if err := c.get(ctx, path, query.values(), &images); err != nil {
		return nil, fmt.Errorf("steamgriddb %s: %w", kind, err)
	}
	return images, nil
}

// Download fetches an image body. Image hosts do not take the API token.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, errors.New("image url must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse steamgriddb url: %w", err)
	}
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Latency: latency}
	}

	payload := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !payload.Success {
		if len(payload.Errors) > 0 {
			return fmt.Errorf("request unsuccessful: %s", strings.Join(payload.Errors, "; "))
		}
		return errors.New("request unsuccessful")
	}
	if len(payload.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
