/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry provides a tiny, privacy-respecting, opt-in event sender
// for anonymous usage metrics and optional crash uploads.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "blogmanager/internal/log"
	"blogmanager/internal/version"
)

// Config holds runtime configuration for telemetry and crash uploads.
// All telemetry is strictly opt-in and disabled by default.
//
// Environment variables (read by FromEnv):
// - BMG_TELEMETRY_OPT_IN: "1", "true", "yes" to enable metrics
// - BMG_TELEMETRY_URL: base URL to POST JSON events to
// - BMG_CRASH_UPLOAD_URL: URL to POST crash reports to
// - BMG_TELEMETRY_TIMEOUT_MS: optional request timeout, default 1500ms
//
// If no URLs are set, events are dropped (no-ops), even if opt-in is true.
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv("BMG_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("BMG_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("BMG_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("BMG_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client is a minimal async sender; it drops events silently on errors and
// never blocks the caller; the queue is bounded.
type Client struct {
	cfg Config
	log *slog.Logger
	cli *http.Client
	q   chan map[string]any
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault initializes the package-level default client from env when first used.
func InitDefault() {
	defaultOnce.Do(func() { defaultClient = New(FromEnv()) })
}

// New constructs a client.
func New(cfg Config) *Client {
	c := &Client{
		cfg: cfg,
		log: applog.WithComponent("telemetry"),
		cli: &http.Client{Timeout: cfg.Timeout},
		q:   make(chan map[string]any, 64),
	}
	go c.loop()
	return c
}

// Enabled reports whether anonymous telemetry is enabled and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event enqueues one named event with optional fields on the default client.
func Event(name string, fields map[string]any) {
	InitDefault()
	defaultClient.Event(name, fields)
}

// Event enqueues one named event; dropped when disabled or the queue is full.
func (c *Client) Event(name string, fields map[string]any) {
	if !c.Enabled() {
		return
	}
	ev := map[string]any{
		"event": name,
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"ver":   version.Version,
		"os":    runtime.GOOS,
	}
	for k, v := range fields {
		ev[k] = v
	}
	select {
	case c.q <- ev:
	default:
		// queue full, drop
	}
}

func (c *Client) loop() {
	for ev := range c.q {
		body, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EventsURL, bytes.NewReader(body))
		if err != nil {
			cancel()
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if resp, err := c.cli.Do(req); err == nil {
			_ = resp.Body.Close()
		}
		cancel()
	}
}

// UploadCrash posts an anonymized crash report when a crash URL is configured
// and the user opted in. Failures are logged at debug level and ignored.
func UploadCrash(report []byte) {
	InitDefault()
	c := defaultClient
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(report))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if resp, err := c.cli.Do(req); err == nil {
		_ = resp.Body.Close()
	} else {
		c.log.Debug("crash upload failed", slog.Any("err", err))
	}
}
