package credentials

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// cookieTTL is the fixed expiry horizon applied to every credential cookie.
const cookieTTL = 7 * 24 * time.Hour

// HeaderSource supplies an externally provided Cookie header. In cookie-only
// mode the current request's inbound header is the only place credentials can
// be read from, so the source is consulted whenever the jar misses.
type HeaderSource func() string

// CookieStore persists credentials as cookies in an http.CookieJar scoped to
// the API origin. It serves two roles: as the mirror backend behind a
// FileStore, and as a standalone Store when no durable storage exists.
type CookieStore struct {
	origin   *url.URL
	jar      http.CookieJar
	header   HeaderSource
	httpOnly bool

	// The external header cannot be mutated, so removed keys are tracked and
	// masked; otherwise a removed credential would resurrect on the next read.
	mu      sync.Mutex
	removed map[string]struct{}
}

// CookieStoreOption configures a CookieStore.
type CookieStoreOption func(*CookieStore)

// WithHeaderSource installs an external Cookie header to fall back to when the
// jar misses a key.
func WithHeaderSource(source HeaderSource) CookieStoreOption {
	return func(c *CookieStore) {
		c.header = source
	}
}

// WithHTTPOnly marks all written cookies HttpOnly. Used in cookie-only mode.
func WithHTTPOnly() CookieStoreOption {
	return func(c *CookieStore) {
		c.httpOnly = true
	}
}

// NewCookieStore returns a Store backed by the given jar, scoped to the given
// API origin.
func NewCookieStore(
	origin string,
	jar http.CookieJar,
	opts ...CookieStoreOption,
) (*CookieStore, error) {
	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing origin %q", origin)
	}
	c := &CookieStore{
		origin:  originURL,
		jar:     jar,
		removed: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Jar returns the underlying jar so an http.Client can share it and carry the
// same cookies on every outgoing request.
func (c *CookieStore) Jar() http.CookieJar {
	return c.jar
}

func (c *CookieStore) Set(key, value string) error {
	c.mu.Lock()
	delete(c.removed, key)
	c.mu.Unlock()
	c.jar.SetCookies(
		c.origin,
		[]*http.Cookie{
			{
				Name:     key,
				Value:    url.QueryEscape(value),
				Path:     "/",
				Expires:  time.Now().Add(cookieTTL),
				SameSite: http.SameSiteStrictMode,
				HttpOnly: c.httpOnly,
			},
		},
	)
	return nil
}

func (c *CookieStore) Get(key string) (string, bool, error) {
	for _, cookie := range c.jar.Cookies(c.origin) {
		if cookie.Name == key {
			return unescapeCookieValue(key, cookie.Value)
		}
	}
	c.mu.Lock()
	_, removed := c.removed[key]
	c.mu.Unlock()
	if removed || c.header == nil {
		return "", false, nil
	}
	for _, cookie := range parseCookieHeader(c.header()) {
		if cookie.Name == key {
			return unescapeCookieValue(key, cookie.Value)
		}
	}
	return "", false, nil
}

func (c *CookieStore) Remove(key string) error {
	c.expire(key)
	return nil
}

// Clear enumerates every cookie name visible to the store, in both the jar and
// the external header, and expires each one.
func (c *CookieStore) Clear() error {
	names := map[string]struct{}{}
	for _, cookie := range c.jar.Cookies(c.origin) {
		names[cookie.Name] = struct{}{}
	}
	if c.header != nil {
		for _, cookie := range parseCookieHeader(c.header()) {
			names[cookie.Name] = struct{}{}
		}
	}
	for name := range names {
		c.expire(name)
	}
	return nil
}

func (c *CookieStore) expire(key string) {
	c.mu.Lock()
	c.removed[key] = struct{}{}
	c.mu.Unlock()
	c.jar.SetCookies(
		c.origin,
		[]*http.Cookie{
			{
				Name:     key,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				Expires:  time.Unix(0, 0),
				SameSite: http.SameSiteStrictMode,
				HttpOnly: c.httpOnly,
			},
		},
	)
}

func unescapeCookieValue(key, value string) (string, bool, error) {
	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return "", false, errors.Wrapf(err, "error decoding cookie %q", key)
	}
	return unescaped, true, nil
}

// parseCookieHeader splits a raw Cookie header into name/value pairs. A
// malformed pair is skipped, not fatal.
func parseCookieHeader(header string) []*http.Cookie {
	if header == "" {
		return nil
	}
	request := http.Request{Header: http.Header{"Cookie": []string{header}}}
	return request.Cookies()
}
