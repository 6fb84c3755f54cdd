// Package apiclient talks to the reservation backend's REST API. Authenticated
// calls pick up the bearer token from the session at the moment each request
// is sent, so a client never carries a stale credential.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is where the backend listens in development.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// maxErrorBody bounds how much of a failed response is kept as the error message.
const maxErrorBody = 4 << 10

// TokenSource yields the current bearer token. The session manager satisfies it.
type TokenSource interface {
	AccessToken() (string, error)
}

// sessionTokenSource adapts a TokenSource to oauth2.TokenSource. It is
// consulted on every request.
type sessionTokenSource struct {
	src TokenSource
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.AccessToken()
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// Client is a backend API client.
type Client struct {
	baseURL   *url.URL
	base      http.RoundTripper
	timeout   time.Duration
	userAgent string
	authed    *http.Client
	anon      *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport sets the underlying round tripper (primarily for testing)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for the API rooted at baseURL. tokens may be nil for a
// client that only performs login and signup.
func New(baseURL string, tokens TokenSource, options ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[New] invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[New] base url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		base:    http.DefaultTransport,
	}
	for _, opt := range options {
		opt(c)
	}

	c.anon = &http.Client{Transport: c.base, Timeout: c.timeout}
	if tokens != nil {
		c.authed = &http.Client{
			Transport: &oauth2.Transport{Source: sessionTokenSource{src: tokens}, Base: c.base},
			Timeout:   c.timeout,
		}
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// do sends a JSON request and decodes a JSON response into out, when out is non-nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	if hc == nil {
		return fmt.Errorf("[%s %s] %w", method, path, errors.ErrNoSession)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("[%s %s] %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("[%s %s] parse response (status %d): %w", method, path, resp.StatusCode, err)
	}
	return nil
}

// readAPIError turns a non-2xx response into an *errors.APIError, pulling the
// message out of the usual Spring error bodies when there is one.
func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &errors.APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Message, body.Detail, body.Error} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
