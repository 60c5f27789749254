// Package relay receives the OAuth completion outside the main control flow,
// the way the web client listens for a postMessage from its login popup. A
// loopback HTTP listener catches the provider redirect; embedded hosts can
// instead hand messages in directly through Deliver.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// MessageTypeOAuthCallback tags a relayed OAuth completion message.
const MessageTypeOAuthCallback = "oauth_callback"

// Providers the SkillNet server can broker a login through.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// Message is the relayed payload: a token/userId/error triple. Messages of
// any other type are dropped without effect.
type Message struct {
	Type   string `json:"type"`
	Token  string `json:"token"`
	UserID string `json:"userId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Sink consumes a successful OAuth completion.
type Sink interface {
	HandleAuthCallback(ctx context.Context, token, userID string) *domain.User
}

// Result is the terminal outcome of one relay round.
type Result struct {
	User *domain.User
	Err  error
}

// Listener is a single-use loopback callback receiver. Each login attempt
// gets a fresh Listener with a fresh state nonce.
type Listener struct {
	sink  Sink
	state string

	echo     *echo.Echo
	redirect string

	once    sync.Once
	results chan Result
}

// NewListener creates a Listener feeding completions into sink.
func NewListener(sink Sink) *Listener {
	return &Listener{
		sink:    sink,
		state:   uuid.NewString(),
		results: make(chan Result, 1),
	}
}

// State returns the nonce the callback must echo back. Requests carrying any
// other state are ignored, the loopback analog of the web client's
// same-origin check.
func (l *Listener) State() string { return l.state }

// Start binds the loopback listener and returns the redirect URI to hand to
// the server's OAuth entry point.
func (l *Listener) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to bind loopback listener: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/callback", l.handleCallback)
	e.Listener = ln
	l.echo = e

	go func() {
		if serr := e.Start(""); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			log.Error().Err(serr).Msg("oauth relay listener stopped unexpectedly")
		}
	}()

	l.redirect = fmt.Sprintf("http://%s/callback", ln.Addr().String())
	return l.redirect, nil
}

// Wait blocks until a completion arrives or ctx expires.
func (l *Listener) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-l.results:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Close shuts the listener down. Safe to call more than once.
func (l *Listener) Close() error {
	if l.echo == nil {
		return nil
	}
	return l.echo.Shutdown(context.Background())
}

// Deliver feeds a relayed message in directly, for hosts that receive the
// OAuth completion through their own channel. Unknown message types and
// empty payloads are dropped.
func (l *Listener) Deliver(ctx context.Context, msg Message) {
	if msg.Type != MessageTypeOAuthCallback {
		return
	}
	switch {
	case msg.Token != "":
		user := l.sink.HandleAuthCallback(ctx, msg.Token, msg.UserID)
		l.publish(Result{User: user})
	case msg.Error != "":
		l.publish(Result{Err: errors.New(msg.Error)})
	}
}

func (l *Listener) handleCallback(c echo.Context) error {
	if c.QueryParam("state") != l.state {
		log.Warn().Msg("dropping oauth callback with mismatched state")
		return c.NoContent(http.StatusForbidden)
	}

	token := c.QueryParam("token")
	userID := c.QueryParam("userId")
	errMsg := c.QueryParam("error")

	switch {
	case token != "":
		user := l.sink.HandleAuthCallback(c.Request().Context(), token, userID)
		l.publish(Result{User: user})
		return c.HTML(http.StatusOK, "<html><body>Login complete. You can close this window.</body></html>")
	case errMsg != "":
		l.publish(Result{Err: errors.New(errMsg)})
		return c.HTML(http.StatusOK, "<html><body>Login failed. You can close this window.</body></html>")
	default:
		return c.NoContent(http.StatusBadRequest)
	}
}

// publish records the first result; later deliveries are dropped.
func (l *Listener) publish(res Result) {
	l.once.Do(func() {
		l.results <- res
	})
}

// LoginURL builds the server's OAuth entry URL for a provider, carrying the
// loopback redirect and the state nonce.
func LoginURL(serverBase, provider, redirectURI, state string) (string, error) {
	if provider != ProviderGoogle && provider != ProviderGitHub {
		return "", fmt.Errorf("unsupported oauth provider %q", provider)
	}
	base, err := url.Parse(serverBase)
	if err != nil {
		return "", fmt.Errorf("invalid server base %q: %w", serverBase, err)
	}
	entry := *base
	entry.Path = "/oauth2/authorization/" + provider
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	entry.RawQuery = q.Encode()
	return entry.String(), nil
}
