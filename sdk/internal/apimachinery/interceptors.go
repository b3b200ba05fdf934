package apimachinery

import "net/http"

// Handler executes one outgoing HTTP request. A Handler may return (nil, nil)
// to indicate the call was deliberately suppressed: the caller observes a
// silently completed empty result rather than an error. Only the unauthorized
// interceptor produces this outcome.
type Handler func(req *http.Request) (*http.Response, error)

// Interceptor wraps a Handler with additional request or response logic.
type Interceptor func(Handler) Handler

// Chain is the ordered set of interceptors every outgoing request passes
// through. The first interceptor added is outermost: it sees the request
// first and the response (or error) last. The order is fixed at construction
// and never varies per call.
type Chain struct {
	interceptors []Interceptor
}

// NewChain returns a Chain applying the given interceptors in order.
func NewChain(interceptors ...Interceptor) *Chain {
	return &Chain{
		interceptors: interceptors,
	}
}

// Wrap wraps the given Handler with every interceptor in the chain.
func (c *Chain) Wrap(handler Handler) Handler {
	wrapped := handler
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		wrapped = c.interceptors[i](wrapped)
	}
	return wrapped
}
