// Package keepalive pings companion services so idle hosts stay warm.
package keepalive

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/cderp/coursesite/internal/config"
)

// PingPath is appended to every target base URL.
const PingPath = "/api/ping"

// Targets returns the ping URLs derived from base URLs. Blank entries are skipped.
func Targets(bases []string) []string {
	targets := make([]string, 0, len(bases))
	for _, b := range bases {
		b = strings.TrimRight(strings.TrimSpace(b), "/")
		if b == "" {
			continue
		}
		targets = append(targets, b+PingPath)
	}
	return targets
}

// StartWorker pings every configured target immediately and then once per
// interval until ctx is cancelled. Failures are logged and ignored.
func StartWorker(ctx context.Context, cfg *config.Config) {
	targets := Targets(cfg.PingURLs)
	if len(targets) == 0 || cfg.PingInterval <= 0 {
		slog.Info("Keepalive worker disabled")
		return
	}
	client := &http.Client{Timeout: cfg.ProxyTimeout}
	ticker := time.NewTicker(cfg.PingInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Keepalive worker started", "interval", cfg.PingInterval, "targets", len(targets))

		pingAll(ctx, client, targets)
		for {
			select {
			case <-ticker.C:
				pingAll(ctx, client, targets)
			case <-ctx.Done():
				slog.Info("Keepalive worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func pingAll(ctx context.Context, client *http.Client, targets []string) {
	for _, target := range targets {
		if ctx.Err() != nil {
			return
		}
		ping(ctx, client, target)
	}
}

func ping(ctx context.Context, client *http.Client, target string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		slog.Debug("Keepalive: bad target", "target", target, "error", err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("Keepalive: ping failed", "target", target, "error", err)
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Keepalive: failed to close body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("Keepalive: non-OK status", "target", target, "status", resp.StatusCode)
		return
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		slog.Debug("Keepalive: non-JSON response", "target", target, "content_type", mediaType)
		return
	}
	slog.Debug("Keepalive: ping ok", "target", target)
}
