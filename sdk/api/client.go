package api

import (
	"net/http"
	"sync"

	"github.com/notaris/notaris/sdk/activity"
	"github.com/notaris/notaris/sdk/internal/apimachinery"
)

// Client is the general interface for the Notaris API. It exposes the
// specialized clients for different areas of concern, plus the two signals
// feature code is allowed to observe: the shared activity tracker and session
// termination notifications. The interceptor chain itself is not reachable
// from here; callers get uniformly authenticated, uniformly error-reported
// requests and nothing else.
type Client interface {
	// Auth returns a specialized client for authentication and account
	// operations.
	Auth() AuthClient
	// Activity returns the tracker counting in-flight requests across all
	// specialized clients.
	Activity() *activity.Tracker
	// OnSessionTerminated registers a handler invoked synchronously whenever
	// a protected endpoint answers 401. The session manager registers its
	// local-clear here; other observers may register too.
	OnSessionTerminated(handler func())
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// TokenSource supplies a bearer token for requests. May be nil when only
	// cookie sessions are used.
	TokenSource func() string
	// CookieJar carries session cookies across requests. May be nil.
	CookieJar http.CookieJar
	// CookieHeader supplies an externally provided Cookie header. May be nil.
	CookieHeader func() string
	// FileBaseURL is the static file server prefix for filePath rewriting.
	FileBaseURL string
	// AllowInsecure permits TLS connections with unverifiable certificates.
	AllowInsecure bool
}

type client struct {
	baseClient *apimachinery.BaseClient
	authClient AuthClient

	handlersMu          sync.Mutex
	terminationHandlers []func()
}

// NewClient returns a Client for the API at the given address.
func NewClient(apiAddress string, config ClientConfig) Client {
	c := &client{}
	c.baseClient = apimachinery.NewBaseClient(
		apiAddress,
		apimachinery.PipelineConfig{
			TokenSource:         config.TokenSource,
			CookieJar:           config.CookieJar,
			CookieHeader:        config.CookieHeader,
			FileBaseURL:         config.FileBaseURL,
			OnSessionTerminated: c.fireSessionTerminated,
			AllowInsecure:       config.AllowInsecure,
		},
	)
	c.authClient = &authClient{BaseClient: c.baseClient}
	return c
}

func (c *client) Auth() AuthClient {
	return c.authClient
}

func (c *client) Activity() *activity.Tracker {
	return c.baseClient.Activity()
}

func (c *client) OnSessionTerminated(handler func()) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.terminationHandlers = append(c.terminationHandlers, handler)
}

func (c *client) fireSessionTerminated() {
	c.handlersMu.Lock()
	handlers := make([]func(), len(c.terminationHandlers))
	copy(handlers, c.terminationHandlers)
	c.handlersMu.Unlock()
	for _, handler := range handlers {
		handler()
	}
}
