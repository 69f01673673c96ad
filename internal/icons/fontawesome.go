// Package icons validates icon names against the Font Awesome CDN.
package icons

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Checker checks whether a named solid icon exists in the Font Awesome set.
type Checker struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// WithBaseURL sets a custom base URL for the icon CDN (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Checker) {
		c.baseURL = url
	}
}

// NewChecker creates a Checker with the given options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://raw.githack.com/FortAwesome/Font-Awesome/master/svgs/solid",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL returns the SVG URL for a named icon, used both for validation and in
// the generated README header.
func (c *Checker) URL(name string) string {
	return fmt.Sprintf("%s/%s.svg", c.baseURL, name)
}

// Exists reports whether the named icon is present in the icon set.
func (c *Checker) Exists(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(name), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach icon CDN: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logrus.WithFields(logrus.Fields{"icon": name, "status": resp.StatusCode}).Debug("icon lookup")

	return resp.StatusCode == http.StatusOK, nil
}
