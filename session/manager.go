package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"

	"github.com/skillnet-dev/skillnet-go/api"
	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	apierr "github.com/skillnet-dev/skillnet-go/errors"
	"github.com/skillnet-dev/skillnet-go/store"
)

// ErrNotLoggedIn is returned by operations that require an authenticated
// identity.
var ErrNotLoggedIn = errors.New("not logged in")

const (
	// remoteCacheKey indexes the signed-in user's resolved profile.
	remoteCacheKey = "me"
	// remoteCacheTTL bounds how long a resolved profile absorbs repeated
	// bootstrap and profile reads.
	remoteCacheTTL = 30 * time.Second
)

// Manager is the single writer of the identity record. All operations are
// serialized on an internal mutex, so a bootstrap racing an OAuth callback
// resolves to whichever runs second rather than an interleaving.
type Manager struct {
	store store.Store
	auth  *api.AuthService
	users *api.UserService

	mu       sync.Mutex
	identity atomic.Pointer[domain.User]
	cache    *ttlcache.Cache[string, domain.User]

	// navigateToLogin is the embedder's redirect analog, fired when the
	// transport reports a dead session.
	navigateToLogin func()
}

// NewManager creates a Manager over the given store and API services.
func NewManager(st store.Store, auth *api.AuthService, users *api.UserService) *Manager {
	cache := ttlcache.New[string, domain.User](
		ttlcache.WithTTL[string, domain.User](remoteCacheTTL),
		ttlcache.WithDisableTouchOnHit[string, domain.User](),
	)
	go cache.Start()

	return &Manager{
		store: st,
		auth:  auth,
		users: users,
		cache: cache,
	}
}

// Close stops the profile cache janitor.
func (m *Manager) Close() {
	m.cache.Stop()
}

// SetLoginRedirect registers the navigation hook invoked on session expiry.
func (m *Manager) SetLoginRedirect(fn func()) {
	m.navigateToLogin = fn
}

// CurrentUser returns the identity record, or nil when logged out. The
// returned value is a copy.
func (m *Manager) CurrentUser() *domain.User {
	u := m.identity.Load()
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// LoggedIn reports whether an authenticated identity is present.
func (m *Manager) LoggedIn() bool {
	return m.identity.Load().LoggedIn()
}

// Bootstrap establishes the identity at startup. Without a token it clears
// the identity and touches nothing else — no network call is made. With a
// token it walks the resolver chain: remote profile, persisted snapshot,
// then a placeholder synthesized from the token's user id hint.
func (m *Manager) Bootstrap(ctx context.Context) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.store.Token()
	if token == nil || token.AccessToken == "" {
		m.identity.Store(nil)
		return nil
	}
	return m.reconcile(ctx, token.UserID)
}

// LoginResult is the outcome of a credentials login. Failures are data, not
// errors: login runs before authentication is established, so the caller
// renders the error inline instead of guarding a throw.
type LoginResult struct {
	Success bool
	Error   string
}

// LoginWithCredentials exchanges email/password for a session. It never
// returns an error; any failure lands in the result.
func (m *Manager) LoginWithCredentials(ctx context.Context, email, password string) LoginResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("credentials login failed")
		return LoginResult{Success: false, Error: "login failed"}
	}
	if !resp.Success || resp.User == nil {
		reason := resp.Error
		if reason == "" {
			reason = "login failed"
		}
		return LoginResult{Success: false, Error: reason}
	}

	token := &store.Token{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
	}
	store.HydrateClaims(token)
	m.store.SetToken(token)

	m.setIdentity(resp.User, true)
	return LoginResult{Success: true}
}

// HandleAuthCallback is the OAuth completion entry point. The token is
// persisted first; when a user id hint is present a placeholder identity is
// written immediately so the caller can render a logged-in shell, then the
// remote fetch overwrites it once real data arrives. A failed fetch never
// fails the flow — the placeholder stays authoritative until replaced.
func (m *Manager) HandleAuthCallback(ctx context.Context, token, userID string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &store.Token{AccessToken: token, UserID: userID}
	store.HydrateClaims(t)
	m.store.SetToken(t)

	if placeholder := Placeholder(userID); placeholder != nil {
		m.setIdentity(placeholder, true)
	}

	// The token just changed hands; any cached profile belongs to the old
	// session.
	m.cache.Delete(remoteCacheKey)

	return m.reconcile(ctx, t.UserID)
}

// UpdateProfile optimistically merges fields into the identity record and
// snapshot, then writes them to the server. A remote failure surfaces as a
// ProfileUpdateError after the local merge has already been applied; the
// caller is expected to offer a retry.
func (m *Manager) UpdateProfile(ctx context.Context, fields ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.identity.Load()
	if !current.LoggedIn() {
		return ErrNotLoggedIn
	}

	merged := fields.apply(*current)
	m.setIdentity(&merged, true)
	m.cache.Delete(remoteCacheKey)

	req := dto.UpdateProfileRequest{
		FullName:          fields.Name,
		Bio:               fields.Bio,
		ProfilePictureURL: fields.ProfilePictureURL,
	}
	if _, err := m.users.UpdateProfile(ctx, merged.ID, req); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user_id", merged.ID).Msg("remote profile update failed")
		return apierr.NewProfileUpdateError(err)
	}
	return nil
}

// Logout clears the token, the snapshot and the identity unconditionally.
// It involves no network call: logout always succeeds locally even when the
// server is unreachable.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.ClearToken()
	m.store.ClearSnapshot()
	m.cache.Delete(remoteCacheKey)
	m.identity.Store(nil)
	log.Ctx(ctx).Info().Msg("logged out")
}

// AuthExpired is the transport's dead-session callback. The transport has
// already cleared persisted state; this drops the in-memory identity and
// fires the login redirect. It deliberately takes no lock: it is invoked
// mid-request from inside locked operations.
func (m *Manager) AuthExpired() {
	m.identity.Store(nil)
	if m.navigateToLogin != nil {
		m.navigateToLogin()
	}
}

// ProfileUpdate carries the editable identity fields. Skills live only in
// the client's snapshot; the server profile document does not carry them.
type ProfileUpdate struct {
	Name              string
	Bio               string
	ProfilePictureURL string
	Skills            []string
}

func (p ProfileUpdate) apply(u domain.User) domain.User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Bio != "" {
		u.Bio = p.Bio
	}
	if p.ProfilePictureURL != "" {
		u.ProfilePictureURL = p.ProfilePictureURL
	}
	if p.Skills != nil {
		u.Skills = append([]string(nil), p.Skills...)
	}
	return u
}

// reconcile runs the resolver chain under the held lock and installs the
// winning record. Only a remote win is written through to the snapshot;
// snapshot and placeholder wins change nothing durable.
func (m *Manager) reconcile(ctx context.Context, userIDHint string) *domain.User {
	user, source := Reconcile(ctx, m.resolvers(userIDHint))
	if user == nil {
		m.identity.Store(nil)
		return nil
	}

	m.setIdentity(user, source == "remote")
	log.Ctx(ctx).Debug().Str("source", source).Str("user_id", user.ID).Msg("identity reconciled")

	cp := *user
	return &cp
}

// resolvers builds the precedence chain: remote profile, persisted snapshot,
// synthesized placeholder.
func (m *Manager) resolvers(userIDHint string) []Resolver {
	return []Resolver{
		{Name: "remote", Resolve: m.resolveRemote},
		{Name: "snapshot", Resolve: func(context.Context) *domain.User { return m.store.Snapshot() }},
		{Name: "placeholder", Resolve: func(context.Context) *domain.User {
			// The transport may have wiped a dead session while the remote
			// resolver ran; a hint without a live token means logged out.
			if m.store.Token() == nil {
				return nil
			}
			return Placeholder(userIDHint)
		}},
	}
}

// resolveRemote fetches /auth/me through a short-lived cache. Any failure
// degrades to a miss so the chain can fall through to local state.
func (m *Manager) resolveRemote(ctx context.Context) *domain.User {
	if item := m.cache.Get(remoteCacheKey); item != nil {
		u := item.Value()
		return &u
	}

	user, err := m.auth.Me(ctx)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("remote profile fetch failed, falling back to local state")
		return nil
	}
	if user == nil {
		return nil
	}

	m.cache.Set(remoteCacheKey, *user, ttlcache.DefaultTTL)
	return user
}

// setIdentity installs the record and, when persist is set, mirrors it to
// the durable snapshot.
func (m *Manager) setIdentity(u *domain.User, persist bool) {
	cp := *u
	if cp.Username == "" {
		cp.Username = usernameFromEmail(cp.Email)
	}
	m.identity.Store(&cp)
	if persist {
		m.store.SetSnapshot(&cp)
	}
}

func usernameFromEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
