package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnet-dev/skillnet-go/api"
	"github.com/skillnet-dev/skillnet-go/domain"
	apierr "github.com/skillnet-dev/skillnet-go/errors"
	"github.com/skillnet-dev/skillnet-go/store"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// unreachableURL refuses connections immediately, standing in for a backend
// that is down.
const unreachableURL = "http://127.0.0.1:1"

func newTestManager(t *testing.T, baseURL string, st store.Store) *Manager {
	t.Helper()
	client, err := transport.New(baseURL, st)
	require.NoError(t, err)

	m := NewManager(st, api.NewAuthService(client), api.NewUserService(client))
	client.SetAuthExpiredHook(m.AuthExpired)
	t.Cleanup(m.Close)
	return m
}

func TestBootstrapWithoutTokenMakesNoNetworkCall(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	m := newTestManager(t, server.URL, st)

	assert.Nil(t, m.Bootstrap(context.Background()))
	assert.False(t, m.LoggedIn())
	assert.Equal(t, int32(0), requests.Load())
}

func TestBootstrapPrefersRemoteProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.User{
			ID: "u1", Name: "Jane Remote", Username: "jane", Email: "jane@skillnet.dev",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane Stale"})

	m := newTestManager(t, server.URL, st)

	user := m.Bootstrap(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "Jane Remote", user.Name)

	// A remote win is written through to the snapshot.
	snap := st.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "Jane Remote", snap.Name)
}

func TestBootstrapFallsBackToSnapshotWhenRemoteUnreachable(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane Cached", Email: "jane@skillnet.dev"})

	m := newTestManager(t, unreachableURL, st)

	user := m.Bootstrap(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "Jane Cached", user.Name)
	assert.True(t, m.LoggedIn())
}

func TestBootstrapSynthesizesPlaceholderFromTokenHint(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "jane.doe"})

	m := newTestManager(t, unreachableURL, st)

	user := m.Bootstrap(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, "jane.doe", user.ID)
	assert.Equal(t, "jane.doe", user.Username)
	assert.Equal(t, "jane.doe@example.com", user.Email)

	// Placeholders are provisional and never written to the snapshot.
	assert.Nil(t, st.Snapshot())
}

func TestLoginWithCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"token":        "tok-1",
			"refreshToken": "refresh-1",
			"user":         domain.User{ID: "u1", Name: "Jane", Email: "jane@skillnet.dev"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	m := newTestManager(t, server.URL, st)

	result := m.LoginWithCredentials(context.Background(), "jane@skillnet.dev", "wrong")
	assert.False(t, result.Success)
	assert.Equal(t, "invalid email or password", result.Error)
	assert.Nil(t, st.Token())
	assert.False(t, m.LoggedIn())

	result = m.LoginWithCredentials(context.Background(), "jane@skillnet.dev", "hunter2")
	assert.True(t, result.Success)

	token := st.Token()
	require.NotNil(t, token)
	assert.Equal(t, "tok-1", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
	assert.Equal(t, "u1", token.UserID)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Jane", user.Name)
	// Username falls back to the email local part when the server omits it.
	assert.Equal(t, "jane", user.Username)

	require.NotNil(t, st.Snapshot())
}

func TestHandleAuthCallbackIsIdempotent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Jane", Username: "jane"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	m := newTestManager(t, server.URL, st)

	first := m.HandleAuthCallback(context.Background(), "tok", "u1")
	second := m.HandleAuthCallback(context.Background(), "tok", "u1")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
	assert.Equal(t, "Jane", second.Name)

	token := st.Token()
	require.NotNil(t, token)
	assert.Equal(t, "tok", token.AccessToken)
}

func TestHandleAuthCallbackKeepsPlaceholderWhenFetchFails(t *testing.T) {
	st := store.NewMemoryStore()
	m := newTestManager(t, unreachableURL, st)

	user := m.HandleAuthCallback(context.Background(), "tok", "jane.doe")
	require.NotNil(t, user)
	assert.Equal(t, "jane.doe", user.ID)
	assert.Equal(t, "jane.doe@example.com", user.Email)

	// The callback's placeholder is durable so the next launch stays
	// logged in offline.
	require.NotNil(t, st.Token())
	require.NotNil(t, st.Snapshot())
	assert.Equal(t, "jane.doe", st.Snapshot().ID)
}

func TestUpdateProfileMergesLocallyThenWritesRemote(t *testing.T) {
	var gotUpdate map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Jane", Bio: "old bio", Username: "jane"})
	})
	mux.HandleFunc("/users/u1/profile", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotUpdate))
		w.Write([]byte(`{}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	m := newTestManager(t, server.URL, st)
	require.NotNil(t, m.Bootstrap(context.Background()))

	err := m.UpdateProfile(context.Background(), ProfileUpdate{Name: "Jane Doe", Bio: "new bio"})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", gotUpdate["fullName"])
	assert.Equal(t, "new bio", gotUpdate["bio"])

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "new bio", user.Bio)

	snap := st.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "Jane Doe", snap.Name)
}

func TestUpdateProfileRemoteFailureKeepsLocalMerge(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})

	m := newTestManager(t, unreachableURL, st)
	require.NotNil(t, m.Bootstrap(context.Background()))

	err := m.UpdateProfile(context.Background(), ProfileUpdate{Bio: "offline bio"})
	var updateErr *apierr.ProfileUpdateError
	require.ErrorAs(t, err, &updateErr)

	// The optimistic merge stays applied so a retry starts from it.
	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "offline bio", user.Bio)
}

func TestUpdateProfileRequiresLogin(t *testing.T) {
	m := newTestManager(t, unreachableURL, store.NewMemoryStore())

	err := m.UpdateProfile(context.Background(), ProfileUpdate{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogoutClearsEverythingWithoutNetwork(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})

	// Unreachable on purpose: logout must succeed locally regardless.
	m := newTestManager(t, unreachableURL, st)
	require.NotNil(t, m.Bootstrap(context.Background()))

	m.Logout(context.Background())

	assert.Nil(t, st.Token())
	assert.Nil(t, st.Snapshot())
	assert.Nil(t, m.CurrentUser())
	assert.False(t, m.LoggedIn())
}

func TestAuthExpiredDropsIdentityAndRedirects(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})

	m := newTestManager(t, unreachableURL, st)
	redirected := false
	m.SetLoginRedirect(func() { redirected = true })

	require.NotNil(t, m.Bootstrap(context.Background()))

	m.AuthExpired()
	assert.Nil(t, m.CurrentUser())
	assert.True(t, redirected)
}

func TestExpiredSessionDuringRequestLogsOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "stale", RefreshToken: "dead", UserID: "u1"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})

	m := newTestManager(t, server.URL, st)
	redirected := false
	m.SetLoginRedirect(func() { redirected = true })

	// The transport clears the store mid-bootstrap; with token, snapshot
	// and identity all gone, the session is over.
	assert.Nil(t, m.Bootstrap(context.Background()))
	assert.Nil(t, st.Token())
	assert.Nil(t, st.Snapshot())
	assert.False(t, m.LoggedIn())
	assert.True(t, redirected)
}
