package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrStatus is matched by every StatusError.
var ErrStatus = errors.New("unexpected response status")

// StatusError reports a non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Is lets errors.Is(err, ErrStatus) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// UserFetcher loads the user directory and per-user posts shown by the users
// demo.
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]User, error)
	FetchUserPosts(ctx context.Context, userID int, limit int) ([]Post, error)
}

// Ensure Client implements UserFetcher at compile time.
var _ UserFetcher = (*Client)(nil)

// Client performs JSON GET requests against a base URL.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "https://jsonplaceholder.typicode.com"
	defaultUserAgent = "storekit/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for base. An empty base uses the public demo API.
func NewClient(base string) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchUsers retrieves the user directory.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var users []User
	if err := c.GetJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchUserPosts retrieves at most limit posts written by userID.
func (c *Client) FetchUserPosts(ctx context.Context, userID int, limit int) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("user id required")
	}
	query := url.Values{}
	query.Set("userId", strconv.Itoa(userID))
	if limit > 0 {
		query.Set("_limit", strconv.Itoa(limit))
	}
	var posts []Post
	if err := c.GetJSON(ctx, "/posts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetJSON fetches path and decodes the body into dest. Any non-2xx response
// is a *StatusError. Nothing is retried.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: c.baseURL.Path + "/" + strings.TrimPrefix(path, "/")}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: rel.String(), Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", base, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
