// Package transport implements the configured HTTP client every API wrapper
// goes through: base URL handling, bearer token attachment, JSON/multipart
// encoding, and the single refresh-and-replay pass on 401.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/skillnet-dev/skillnet-go/dto"
	apierr "github.com/skillnet-dev/skillnet-go/errors"
	applog "github.com/skillnet-dev/skillnet-go/log"
	"github.com/skillnet-dev/skillnet-go/metrics"
	"github.com/skillnet-dev/skillnet-go/store"
)

const (
	defaultTimeout = 10 * time.Second
	refreshPath    = "/auth/refresh"
)

// Client is the configured request client. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	store     store.Store
	collector *metrics.Collector
	userAgent string

	// onAuthExpired is the navigation hook: the native analog of the web
	// client's redirect to the login page. Fired after a failed refresh
	// (session cleared first) and on 403.
	onAuthExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.collector = m }
}

// WithAuthExpiredHook registers the hook invoked when the session dies.
func WithAuthExpiredHook(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client rooted at baseURL, reading tokens from st.
func New(baseURL string, st store.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: defaultTimeout},
		store:     st,
		userAgent: "skillnet-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetAuthExpiredHook replaces the auth-expired hook after construction. The
// session manager registers itself here once it owns the client.
func (c *Client) SetAuthExpiredHook(fn func()) {
	c.onAuthExpired = fn
}

// Get issues a GET and decodes the response into out (when out is non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	raw, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, raw, contentType, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	raw, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, raw, contentType, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

// PostForm issues a POST with a multipart form body, used for file-bearing
// payloads such as post media uploads.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	raw, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, raw, contentType, out)
}

func encodeJSON(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return raw, "application/json", nil
}

// do runs the request state machine: one attempt, plus at most one replay
// after a successful token refresh. The body is held as bytes so the replay
// can resend it unchanged.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	ctx = applog.WithRequestID(ctx, uuid.NewString())
	start := time.Now()

	status, payload, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		c.collector.RecordRequest(method, 0, time.Since(start))
		log.Ctx(logCtx(ctx)).Debug().Str("method", method).Str("path", path).Err(err).
			Msg("request failed before reaching server")
		return apierr.NewNetworkError(method+" "+path, err)
	}

	if status == http.StatusUnauthorized && c.store.Token() != nil {
		if rerr := c.refreshToken(ctx); rerr != nil {
			c.expireSession(ctx, rerr)
			c.collector.RecordRequest(method, status, time.Since(start))
			return apierr.NewAuthError(status, "token refresh failed")
		}
		c.collector.RecordRetry()
		status, payload, err = c.send(ctx, method, path, body, contentType)
		if err != nil {
			c.collector.RecordRequest(method, 0, time.Since(start))
			return apierr.NewNetworkError(method+" "+path, err)
		}
	}

	c.collector.RecordRequest(method, status, time.Since(start))

	switch {
	case status == http.StatusForbidden:
		// Authorization is the server's decision; the client only mirrors it.
		c.collector.RecordAuthExpiry()
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return apierr.NewAuthError(status, "forbidden")
	case status >= 400:
		return apierr.NewHTTPError(status, errorMessage(payload))
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send performs a single HTTP round trip and drains the body.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := applog.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t := c.store.Token(); t != nil && t.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, payload, nil
}

// refreshToken exchanges the stored refresh token for a new access token and
// persists it. It goes through a bare request rather than do() so a failing
// refresh can never trigger another refresh.
func (c *Client) refreshToken(ctx context.Context) error {
	current := c.store.Token()
	if current == nil || current.RefreshToken == "" {
		return errors.New("no refresh token available")
	}

	raw, _ := json.Marshal(dto.RefreshRequest{RefreshToken: current.RefreshToken})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(refreshPath), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var result dto.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if result.Token == "" {
		return errors.New("refresh response carried no token")
	}

	next := &store.Token{
		AccessToken:  result.Token,
		RefreshToken: current.RefreshToken,
		UserID:       current.UserID,
	}
	if result.RefreshToken != "" {
		next.RefreshToken = result.RefreshToken
	}
	store.HydrateClaims(next)
	c.store.SetToken(next)

	log.Ctx(logCtx(ctx)).Debug().Msg("session token refreshed")
	return nil
}

// expireSession clears all persisted session state and fires the navigation
// hook. Called once per dead session: after the clear, subsequent 401s carry
// no token and skip the refresh branch entirely.
func (c *Client) expireSession(ctx context.Context, cause error) {
	log.Ctx(logCtx(ctx)).Warn().Err(cause).Msg("session expired, clearing local state")
	c.store.ClearToken()
	c.store.ClearSnapshot()
	c.collector.RecordAuthExpiry()
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		ref = &url.URL{Path: strings.TrimPrefix(path, "/")}
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	resolved := base.ResolveReference(ref)
	return resolved.String()
}

// errorMessage pulls a human-readable message from an error payload, falling
// back to the raw body.
func errorMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(payload))
}

// logCtx guarantees a zerolog-capable context for log.Ctx.
func logCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
