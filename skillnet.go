// Package skillnet is a Go client for the SkillNet social learning platform:
// session bootstrap and reconciliation, OAuth completion relay, and typed
// wrappers for the feed, learning plan, comment, profile, notification and
// search surfaces.
package skillnet

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skillnet-dev/skillnet-go/api"
	"github.com/skillnet-dev/skillnet-go/metrics"
	"github.com/skillnet-dev/skillnet-go/session"
	"github.com/skillnet-dev/skillnet-go/store"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// Client bundles the SDK: one store, one transport, one session manager and
// the typed API services, all sharing the same session state.
type Client struct {
	Store   store.Store
	HTTP    *transport.Client
	Session *session.Manager

	Auth          *api.AuthService
	Users         *api.UserService
	Posts         *api.PostService
	Comments      *api.CommentService
	Plans         *api.PlanService
	Notifications *api.NotificationService
	Search        *api.SearchService

	ownsStore bool
}

type options struct {
	store         store.Store
	storePath     string
	httpClient    *http.Client
	timeout       time.Duration
	registry      prometheus.Registerer
	loginRedirect func()
}

// Option configures New.
type Option func(*options)

// WithStore uses a caller-managed session store. The caller keeps ownership;
// Close will not close it.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithStorePath persists the session in a bbolt file at path.
func WithStorePath(path string) Option {
	return func(o *options) { o.storePath = path }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMetricsRegistry registers transport metrics with reg.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// WithLoginRedirect registers the hook fired when the session dies, the
// native analog of the web client's redirect to the login page.
func WithLoginRedirect(fn func()) Option {
	return func(o *options) { o.loginRedirect = fn }
}

// New builds a Client rooted at baseURL (the server's /api root). Without
// WithStore or WithStorePath the session lives in memory only.
func New(baseURL string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	st := o.store
	ownsStore := false
	if st == nil {
		if o.storePath != "" {
			bolt, err := store.OpenBolt(o.storePath)
			if err != nil {
				return nil, err
			}
			st = bolt
		} else {
			st = store.NewMemoryStore()
		}
		ownsStore = true
	}

	topts := []transport.Option{}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.timeout > 0 {
		topts = append(topts, transport.WithTimeout(o.timeout))
	}
	if o.registry != nil {
		topts = append(topts, transport.WithMetrics(metrics.NewCollector(o.registry)))
	}

	httpClient, err := transport.New(baseURL, st, topts...)
	if err != nil {
		if ownsStore {
			st.Close()
		}
		return nil, err
	}

	auth := api.NewAuthService(httpClient)
	users := api.NewUserService(httpClient)
	posts := api.NewPostService(httpClient)

	manager := session.NewManager(st, auth, users)
	manager.SetLoginRedirect(o.loginRedirect)
	httpClient.SetAuthExpiredHook(manager.AuthExpired)

	plans := api.NewPlanService(httpClient)

	return &Client{
		Store:         st,
		HTTP:          httpClient,
		Session:       manager,
		Auth:          auth,
		Users:         users,
		Posts:         posts,
		Comments:      api.NewCommentService(httpClient),
		Plans:         plans,
		Notifications: api.NewNotificationService(posts),
		Search:        api.NewSearchService(plans, posts),
		ownsStore:     ownsStore,
	}, nil
}

// Close releases the session manager and, when owned, the store.
func (c *Client) Close() error {
	c.Session.Close()
	if c.ownsStore {
		return c.Store.Close()
	}
	return nil
}
