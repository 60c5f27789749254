// Package store persists the client session between runs: the bearer token
// and the identity snapshot. It is the native-client analog of the browser
// localStorage slice the web app keeps under the `token`, `userId` and
// `skillnet_user` keys.
package store

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// Token is the persisted session credential. AccessToken is opaque to the
// client; UserID is a hint carried alongside it for placeholder synthesis.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// Store is the synchronous persistence contract. Implementations must treat
// corrupted persisted data as absent: reads return nil rather than an error,
// because a damaged cache must never block session bootstrap.
type Store interface {
	// Token returns the persisted session token, or nil when absent or
	// unreadable.
	Token() *Token
	SetToken(t *Token)
	ClearToken()

	// Snapshot returns the persisted identity snapshot, or nil when absent
	// or unreadable.
	Snapshot() *domain.User
	SetSnapshot(u *domain.User)
	ClearSnapshot()

	// Close releases the underlying medium. Safe on an already-closed store.
	Close() error
}

// HydrateClaims fills the token's UserID hint and expiry from JWT claims when
// the access token happens to be JWT-shaped. The parse is unverified: the
// client has no key material and only wants display hints, never trust.
// Opaque tokens are left untouched.
func HydrateClaims(t *Token) {
	if t == nil || t.AccessToken == "" || strings.Count(t.AccessToken, ".") != 2 {
		return
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(t.AccessToken, claims); err != nil {
		return
	}
	if t.UserID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			t.UserID = sub
		}
	}
	if t.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			t.ExpiresAt = exp.Time
		}
	}
}
