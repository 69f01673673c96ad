// Package github provides a minimal client for the GitHub REST API: resolving
// the authenticated user and fetching or creating repositories.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// User represents the authenticated GitHub account.
type User struct {
	Login string `json:"login"`
}

// Repo represents a GitHub repository handle.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
}

// RepoExistsError indicates a repository of the requested name already exists
// for the authenticated user.
type RepoExistsError struct {
	Name string
}

func (e *RepoExistsError) Error() string {
	return fmt.Sprintf("a GitHub repository named %q already exists", e.Name)
}

// NotFoundError indicates the requested resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found on GitHub", e.Resource)
}

// Client talks to the GitHub REST API on behalf of a token-authenticated user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL sets a custom base URL for the GitHub API (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a Client authenticating with the given personal token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.github.com",
		token:      token,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AuthenticatedUser returns the account the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Repository fetches a repository by owner and name. A missing repository is
// reported as a NotFoundError.
func (c *Client) Repository(ctx context.Context, owner, name string) (*Repo, error) {
	var repo Repo
	path := fmt.Sprintf("/repos/%s/%s", owner, name)
	err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &repo)
	if err != nil {
		if apiErr, ok := err.(*apiStatusError); ok && apiErr.status == http.StatusNotFound {
			return nil, &NotFoundError{Resource: fmt.Sprintf("repository %s/%s", owner, name)}
		}
		return nil, err
	}
	return &repo, nil
}

// CreateRepository creates a repository for the authenticated user. A name
// collision is reported as a RepoExistsError.
func (c *Client) CreateRepository(ctx context.Context, name, description string) (*Repo, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
	}

	var repo Repo
	err := c.do(ctx, http.MethodPost, "/user/repos", body, http.StatusCreated, &repo)
	if err != nil {
		if apiErr, ok := err.(*apiStatusError); ok && apiErr.status == http.StatusUnprocessableEntity {
			return nil, &RepoExistsError{Name: name}
		}
		return nil, err
	}
	return &repo, nil
}

// do performs one API request, decoding a successful response into out.
func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	logrus.WithFields(logrus.Fields{"method": method, "path": path}).Debug("calling GitHub API")

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return parseAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// apiStatusError carries the HTTP status so callers can map well-known
// statuses onto typed errors.
type apiStatusError struct {
	status  int
	message string
}

func (e *apiStatusError) Error() string {
	switch e.status {
	case http.StatusUnauthorized:
		return fmt.Sprintf("unauthorized: %s (check your GitHub token)", e.message)
	case http.StatusForbidden:
		return fmt.Sprintf("forbidden: %s (check token scopes)", e.message)
	default:
		return fmt.Sprintf("GitHub API error (status %d): %s", e.status, e.message)
	}
}

// parseAPIError parses a GitHub API error response.
func parseAPIError(statusCode int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return &apiStatusError{status: statusCode, message: string(body)}
	}
	return &apiStatusError{status: statusCode, message: payload.Message}
}
