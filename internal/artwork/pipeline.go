package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"steamsyncer/internal/artwork/steamgriddb"
	"steamsyncer/internal/fileutil"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/services"
)

// Result summarizes one FetchSet call.
type Result struct {
	Downloaded int
	Attempted  int
	Files      map[Kind]string
	Skipped    bool
}

// CatalogFactory builds a catalog client for an API key.
type CatalogFactory func(apiKey string) (steamgriddb.Catalog, error)

// Pipeline fetches and normalizes artwork sets.
type Pipeline struct {
	throttle   *Throttle
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
	factory    CatalogFactory

	mu      sync.Mutex
	catalog steamgriddb.Catalog
	apiKey  string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithThrottle shares an existing throttle.
func WithThrottle(t *Throttle) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.throttle = t
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithBaseURL points the default catalog at another API root.
func WithBaseURL(baseURL string) Option {
	return func(p *Pipeline) { p.baseURL = strings.TrimSpace(baseURL) }
}

// WithRequestTimeout bounds each HTTP request of the default catalog.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		if timeout > 0 {
			p.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithCatalogFactory replaces the SteamGridDB client constructor.
func WithCatalogFactory(factory CatalogFactory) Option {
	return func(p *Pipeline) {
		if factory != nil {
			p.factory = factory
		}
	}
}

// NewPipeline builds a pipeline with a DefaultMinInterval throttle unless one
// is supplied.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		throttle:   NewThrottle(DefaultMinInterval, nil),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "artwork")
	if p.factory == nil {
		p.factory = func(apiKey string) (steamgriddb.Catalog, error) {
			return steamgriddb.New(apiKey, p.baseURL, steamgriddb.WithHTTPClient(p.httpClient))
		}
	}
	return p
}

func (p *Pipeline) catalogFor(apiKey string) (steamgriddb.Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.catalog != nil && p.apiKey == apiKey {
		return p.catalog, nil
	}
	catalog, err := p.factory(apiKey)
	if err != nil {
		return nil, err
	}
	p.catalog = catalog
	p.apiKey = apiKey
	return catalog, nil
}

// FetchSet fills in whatever artwork is missing for appID in artDir. Only a
// broken setup (unusable artDir, invalid API key) is returned as an error;
// search and per-kind failures are logged and counted as attempted.
func (p *Pipeline) FetchSet(ctx context.Context, apiKey, gameName, artDir string, appID uint32) (Result, error) {
	result := Result{Files: make(map[Kind]string)}
	logger := p.logger.With(logging.Game(gameName), logging.AppID(appID))

	missing, err := MissingKinds(artDir, appID)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "artwork", "check", "inspect grid directory", err)
	}
	for _, kind := range AllKinds {
		if !missing.Contains(kind) {
			result.Files[kind] = existingPath(artDir, appID, kind)
		}
	}
	if len(missing) == 0 {
		result.Skipped = true
		logger.Debug("artwork complete, skipping")
		return result, nil
	}
	result.Attempted = len(missing)

	catalog, err := p.catalogFor(apiKey)
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "artwork", "client", "create steamgriddb client", err)
	}
	if err := os.MkdirAll(artDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrValidation, "artwork", "mkdir", "create grid directory", err)
	}

	gameID, err := p.search(ctx, catalog, gameName)
	if err != nil {
		logging.WarnWithContext(logger, "artwork search failed", "artwork_search_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the game title or SteamGridDB availability"),
			logging.String(logging.FieldImpact, "artwork skipped for this game"),
		)
		return result, nil
	}

	for _, kind := range missing {
		path, err := p.fetchKind(ctx, catalog, gameID, kind, artDir, appID)
		if err != nil {
			logging.WarnWithContext(logger, "artwork fetch failed", "artwork_fetch_failed",
				logging.String("kind", string(kind)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "artwork kind left missing"),
			)
			continue
		}
		result.Files[kind] = path
		result.Downloaded++
	}
	logger.Info("artwork fetched",
		logging.Int("downloaded", result.Downloaded),
		logging.Int("attempted", result.Attempted),
	)
	return result, nil
}

func (p *Pipeline) search(ctx context.Context, catalog steamgriddb.Catalog, gameName string) (int64, error) {
	if err := p.throttle.Wait(ctx); err != nil {
		return 0, err
	}
	games, err := catalog.SearchAutocomplete(ctx, gameName)
	if err != nil {
		return 0, services.Wrap(services.ErrCatalog, "artwork", "search", gameName, err)
	}
	if len(games) == 0 {
		return 0, services.Wrap(services.ErrNotFound, "artwork", "search", "no catalog match for "+gameName, nil)
	}
	return games[0].ID, nil
}

func (p *Pipeline) fetchKind(ctx context.Context, catalog steamgriddb.Catalog, gameID int64, kind Kind, dir string, appID uint32) (string, error) {
	if err := p.throttle.Wait(ctx); err != nil {
		return "", err
	}
	images, err := listImages(ctx, catalog, gameID, kind)
	if err != nil {
		return "", services.Wrap(services.ErrCatalog, "artwork", string(kind), "list images", err)
	}
	chosen, ok := pickImage(images)
	if !ok {
		return "", services.Wrap(services.ErrNotFound, "artwork", string(kind), "no images", nil)
	}

	data, err := catalog.Download(ctx, chosen.URL)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "artwork", string(kind), "download", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "artwork", string(kind), "decode image", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Resize(img, kind)); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	target := Path(dir, appID, kind)
	if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	removeSiblings(dir, appID, kind)
	return target, nil
}

func listImages(ctx context.Context, catalog steamgriddb.Catalog, gameID int64, kind Kind) ([]steamgriddb.Image, error) {
	query := steamgriddb.ImageQuery{Types: []string{"static"}}
	switch kind {
	case KindGrid:
		query.Dimensions = []string{"600x900"}
		return catalog.Grids(ctx, gameID, query)
	case KindGridWide:
		query.Dimensions = []string{"460x215", "920x430"}
		return catalog.Grids(ctx, gameID, query)
	case KindHero:
		query.Dimensions = []string{"3840x1240", "1920x620"}
		return catalog.Heroes(ctx, gameID, query)
	case KindLogo:
		return catalog.Logos(ctx, gameID, query)
	case KindIcon:
		return catalog.Icons(ctx, gameID, query)
	default:
		return nil, errors.New("unknown artwork kind " + string(kind))
	}
}

// pickImage prefers PNG, then JPEG, then whatever came first.
func pickImage(images []steamgriddb.Image) (steamgriddb.Image, bool) {
	var jpeg, other *steamgriddb.Image
	for i := range images {
		img := &images[i]
		if strings.TrimSpace(img.URL) == "" {
			continue
		}
		switch imageFormat(*img) {
		case "png":
			return *img, true
		case "jpeg":
			if jpeg == nil {
				jpeg = img
			}
		default:
			if other == nil {
				other = img
			}
		}
	}
	switch {
	case jpeg != nil:
		return *jpeg, true
	case other != nil:
		return *other, true
	default:
		return steamgriddb.Image{}, false
	}
}

func imageFormat(img steamgriddb.Image) string {
	mime := strings.ToLower(img.Mime)
	switch {
	case mime == "image/png":
		return "png"
	case mime == "image/jpeg" || mime == "image/jpg":
		return "jpeg"
	case mime != "":
		return mime
	}
	ext := strings.ToLower(filepath.Ext(strings.SplitN(img.URL, "?", 2)[0]))
	switch ext {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	default:
		return ext
	}
}

// removeSiblings drops other encodings of kind so the fresh PNG is the only
// candidate Steam can pick up.
func removeSiblings(dir string, appID uint32, kind Kind) {
	for _, ext := range append([]string{legacyExtension}, AcceptedExtensions...) {
		if ext == ".png" {
			continue
		}
		_ = os.Remove(filepath.Join(dir, FileName(appID, kind, ext)))
	}
}

func existingPath(dir string, appID uint32, kind Kind) string {
	for _, ext := range AcceptedExtensions {
		path := filepath.Join(dir, FileName(appID, kind, ext))
		if fileutil.Exists(path) {
			return path
		}
	}
	return Path(dir, appID, kind)
}
