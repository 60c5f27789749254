package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnet-dev/skillnet-go/domain"
	apierr "github.com/skillnet-dev/skillnet-go/errors"
	"github.com/skillnet-dev/skillnet-go/store"
)

func newTestClient(t *testing.T, handler http.Handler, st store.Store, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, st, opts...)
	require.NoError(t, err)
	return client, server
}

func TestAttachesBearerToken(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok-123"})

	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), st)

	require.NoError(t, client.Get(context.Background(), "/posts", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	st := store.NewMemoryStore()

	var sawAuth bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Write([]byte(`{}`))
	}), st)

	require.NoError(t, client.Get(context.Background(), "/posts", nil))
	assert.False(t, sawAuth)
}

func TestJSONContentType(t *testing.T) {
	st := store.NewMemoryStore()

	var gotType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}), st)

	require.NoError(t, client.Post(context.Background(), "/comments/p1", map[string]string{"content": "hi"}, nil))
	assert.Equal(t, "application/json", gotType)
}

func TestMultipartContentType(t *testing.T) {
	st := store.NewMemoryStore()

	var gotType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}), st)

	form := NewForm().
		Set("description", "learned Go").
		File("file", "pic.png", strings.NewReader("fake-bytes"))
	require.NoError(t, client.PostForm(context.Background(), "/posts/upload", form, nil))
	assert.True(t, strings.HasPrefix(gotType, "multipart/form-data"))
}

func TestRefreshAndReplayOn401(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "stale", RefreshToken: "refresh-1"})

	var attempts []string
	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		attempts = append(attempts, auth)
		if auth != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refreshToken"])
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
	})

	client, _ := newTestClient(t, mux, st)

	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/posts", &out))
	assert.Equal(t, true, out["ok"])

	// Exactly one replay, carrying the refreshed token.
	require.Len(t, attempts, 2)
	assert.Equal(t, "Bearer stale", attempts[0])
	assert.Equal(t, "Bearer fresh", attempts[1])

	// The refreshed token kept the refresh token for next time.
	token := st.Token()
	require.NotNil(t, token)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
}

func TestFailedRefreshClearsSessionAndFiresHookOnce(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "stale", RefreshToken: "dead"})
	st.SetSnapshot(&domain.User{ID: "u1", Name: "Jane"})

	mux := http.NewServeMux()
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	hookCalls := 0
	client, _ := newTestClient(t, mux, st, WithAuthExpiredHook(func() { hookCalls++ }))

	err := client.Get(context.Background(), "/posts", nil)
	var authErr *apierr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)

	assert.Nil(t, st.Token())
	assert.Nil(t, st.Snapshot())
	assert.Equal(t, 1, hookCalls)

	// With the session gone, a later 401 skips the refresh branch and does
	// not fire the hook again.
	err = client.Get(context.Background(), "/posts", nil)
	var httpErr *apierr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 1, hookCalls)
}

func TestMissingRefreshTokenCountsAsFailedRefresh(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "stale"})

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), st)

	err := client.Get(context.Background(), "/posts", nil)
	var authErr *apierr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Nil(t, st.Token())
}

func TestForbiddenFiresHook(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetToken(&store.Token{AccessToken: "tok"})

	hookCalls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}), st, WithAuthExpiredHook(func() { hookCalls++ }))

	err := client.Get(context.Background(), "/admin", nil)
	var authErr *apierr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Status)
	assert.Equal(t, 1, hookCalls)
}

func TestNetworkErrorIsDistinguished(t *testing.T) {
	st := store.NewMemoryStore()
	client, err := New("http://127.0.0.1:1", st)
	require.NoError(t, err)

	gerr := client.Get(context.Background(), "/posts", nil)
	var netErr *apierr.NetworkError
	require.ErrorAs(t, gerr, &netErr)
}

func TestHTTPErrorCarriesServerMessage(t *testing.T) {
	st := store.NewMemoryStore()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"description is required"}`))
	}), st)

	err := client.Post(context.Background(), "/posts/upload", map[string]string{}, nil)
	var httpErr *apierr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "description is required", httpErr.Body)
}

func TestBaseURLPathIsPreserved(t *testing.T) {
	st := store.NewMemoryStore()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL+"/api", st)
	require.NoError(t, err)
	require.NoError(t, client.Get(context.Background(), "/learning-plans", nil))
	assert.Equal(t, "/api/learning-plans", gotPath)
}

func TestQueryStringSurvivesResolution(t *testing.T) {
	st := store.NewMemoryStore()

	var gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}), st)

	require.NoError(t, client.Post(context.Background(), "/posts/p1/like?userId=u1", nil, nil))
	assert.Equal(t, "/posts/p1/like", gotPath)
	assert.Equal(t, "userId=u1", gotQuery)
}
