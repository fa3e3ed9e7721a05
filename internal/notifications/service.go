package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"steamsyncer/internal/config"
)

const (
	userAgent      = "steamsyncer/0.1.0"
	defaultTimeout = 10 * time.Second
)

// Service is what the sync orchestrator and the doctor command notify through.
type Service interface {
	NotifySyncCompleted(ctx context.Context, found, added, pendingArtwork int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService returns an ntfy publisher for the configured topic URL, or a
// no-op Service when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ntfyService{
		topicURL: strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:   &http.Client{Timeout: timeout},
		enabled: map[kind]bool{
			kindSync:  cfg.Notifications.Sync,
			kindError: cfg.Notifications.Errors,
			kindTest:  true,
		},
	}
}

type kind int

const (
	kindSync kind = iota
	kindError
	kindTest
)

// message maps onto ntfy's publish headers; the body is plain text.
type message struct {
	kind     kind
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	topicURL string
	client   *http.Client
	enabled  map[kind]bool
}

func (n *ntfyService) NotifySyncCompleted(ctx context.Context, found, added, pendingArtwork int) error {
	// A pass that changed nothing is not worth a push.
	if added == 0 && pendingArtwork == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("🎮 Added %d of %d games to Steam", added, found)}
	if pendingArtwork > 0 {
		lines = append(lines, fmt.Sprintf("Artwork still missing for %d", pendingArtwork))
	}
	return n.publish(ctx, message{
		kind:  kindSync,
		title: "steamsyncer - Sync Complete",
		body:  strings.Join(lines, "\n"),
		tags:  []string{"steamsyncer", "sync", "completed"},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, label string) error {
	where := ""
	if label = strings.TrimSpace(label); label != "" {
		where = " during " + label
	}
	reason := "unknown"
	if err != nil {
		reason = strings.TrimSpace(err.Error())
	}
	return n.publish(ctx, message{
		kind:     kindError,
		title:    "steamsyncer - Error",
		body:     fmt.Sprintf("❌ Error%s: %s", where, reason),
		tags:     []string{"steamsyncer", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.publish(ctx, message{
		kind:     kindTest,
		title:    "steamsyncer - Test",
		body:     "🧪 Notification system test",
		tags:     []string{"steamsyncer", "test"},
		priority: "low",
	})
}

func (n *ntfyService) publish(ctx context.Context, m message) error {
	if !n.enabled[m.kind] {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.topicURL, strings.NewReader(m.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	headers := map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        m.title,
		"Tags":         strings.Join(m.tags, ","),
		"Priority":     m.priority,
	}
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish to ntfy: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySyncCompleted(context.Context, int, int, int) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
