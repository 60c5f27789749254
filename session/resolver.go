// Package session owns the authenticated identity: one writer reconciling
// the remote profile, the persisted snapshot, and the bare token hint into a
// single record, with graceful degradation when the network is away.
package session

import (
	"context"
	"regexp"
	"strings"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// Resolver is one identity source. Resolve reports nil when the source has
// nothing usable; it must not fail louder than that.
type Resolver struct {
	Name    string
	Resolve func(ctx context.Context) *domain.User
}

// Reconcile folds over resolvers in precedence order and returns the first
// usable record plus the name of the source that produced it. A record is
// usable when it carries a non-empty ID.
func Reconcile(ctx context.Context, resolvers []Resolver) (*domain.User, string) {
	for _, r := range resolvers {
		if u := r.Resolve(ctx); u.LoggedIn() {
			return u, r.Name
		}
	}
	return nil, ""
}

var whitespace = regexp.MustCompile(`\s+`)

// slugify lowercases a user id and collapses whitespace runs into dots,
// matching how the web client synthesizes usernames from OAuth hints.
func slugify(userID string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(userID)), ".")
}

// Placeholder synthesizes a provisional identity from a bare user id so the
// caller can render a logged-in shell before the real profile arrives. The
// synthesized email has no uniqueness guarantee; it exists only so every
// field reads as populated.
func Placeholder(userID string) *domain.User {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	s := slugify(userID)
	return &domain.User{
		ID:       userID,
		Name:     userID,
		Username: s,
		Email:    s + "@example.com",
	}
}
