// Package fetch downloads subtitle documents from media hosts.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subcue/internal/logging"
	"subcue/internal/services"
	"subcue/internal/srt"
)

const (
	defaultUserAgent   = "subcue/dev"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxBytes    = 4 << 20
)

// Config describes the fetch client configuration.
type Config struct {
	UserAgent  string
	Timeout    time.Duration
	MaxBytes   int64
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client downloads SRT documents over HTTP.
type Client struct {
	userAgent string
	maxBytes  int64
	http      *http.Client
	logger    *slog.Logger
}

// Document is a downloaded subtitle file decoded to text.
type Document struct {
	Source      string
	Text        string
	ContentType string
	Size        int64
	FetchedAt   time.Time
}

// New creates a Client from the supplied configuration.
func New(cfg Config) *Client {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		userAgent: userAgent,
		maxBytes:  maxBytes,
		http:      client,
		logger:    logging.NewComponentLogger(cfg.Logger, "fetch"),
	}
}

// IsRemote reports whether source looks like an http(s) URL.
func IsRemote(source string) bool {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Get downloads and decodes the document at rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (Document, error) {
	if c == nil {
		return Document{}, errors.New("fetch: client is nil")
	}
	rawURL = strings.TrimSpace(rawURL)
	if !IsRemote(rawURL) {
		return Document{}, services.Wrap(services.ErrValidation, "fetch", "get", fmt.Sprintf("unsupported url %q", rawURL), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "fetch", "build request", "", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/x-subrip, text/plain;q=0.9, */*;q=0.5")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Document{}, services.Wrap(services.ErrTimeout, "fetch", "get", rawURL, err)
		}
		return Document{}, services.Wrap(services.ErrFetch, "fetch", "get", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("%s returned %s", rawURL, resp.Status)
		if body := strings.TrimSpace(string(snippet)); body != "" {
			msg += ": " + body
		}
		marker := services.ErrFetch
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return Document{}, services.Wrap(marker, "fetch", "get", msg, nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return Document{}, services.Wrap(services.ErrFetch, "fetch", "read body", rawURL, err)
	}
	if int64(len(raw)) > c.maxBytes {
		return Document{}, services.Wrap(services.ErrValidation, "fetch", "read body",
			fmt.Sprintf("document exceeds %d bytes", c.maxBytes), nil)
	}

	text, err := srt.Decode(raw)
	if err != nil {
		return Document{}, services.Wrap(services.ErrValidation, "fetch", "decode", rawURL, err)
	}

	c.logger.DebugContext(ctx, "subtitle document fetched",
		logging.String("url", rawURL),
		logging.Int("bytes", len(raw)),
		logging.Duration("elapsed", time.Since(start)),
	)

	return Document{
		Source:      rawURL,
		Text:        text,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        int64(len(raw)),
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
