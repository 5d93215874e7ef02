// Package client is a small Go client for the portfolio API.  It mirrors the
// calls a front end makes: public reads, admin login and the protected
// writes, which take the token returned by Login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ozaiithejava/portfolio-api/internal/model"
)

const defaultTimeout = 10 * time.Second

// Request and response types shared with the server.
type (
	Project      = model.Project
	ProjectInput = model.ProjectInput
	Flag         = model.Flag
)

// APIError is returned for any non-2xx response.  Message is the "error"
// field of the body when there is one, else the raw body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portfolio api: %d %s", e.Status, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit spaces outgoing requests to at most r per second.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// Client talks to one API base URL, e.g. "http://localhost:3001".
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out)
	return out, err
}

// Projects returns the active projects in display order.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/projects", "", nil, &out)
	return out, err
}

// AllProjects includes hidden projects and needs a token.
func (c *Client) AllProjects(ctx context.Context, token string) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/projects/all", token, nil, &out)
	return out, err
}

// Content returns every page text block keyed by name.
func (c *Client) Content(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := c.do(ctx, http.MethodGet, "/api/content", "", nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, token string, in ProjectInput) (Project, error) {
	var out Project
	err := c.do(ctx, http.MethodPost, "/api/projects", token, in, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, token string, id uint64, in ProjectInput) error {
	return c.do(ctx, http.MethodPut, "/api/projects/"+strconv.FormatUint(id, 10), token, in, nil)
}

func (c *Client) DeleteProject(ctx context.Context, token string, id uint64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+strconv.FormatUint(id, 10), token, nil, nil)
}

func (c *Client) UpdateContent(ctx context.Context, token, key, value string) error {
	body := map[string]string{"key": key, "value": value}
	return c.do(ctx, http.MethodPost, "/api/content", token, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(status int, raw []byte) *APIError {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return &APIError{Status: status, Message: e.Error}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
}
