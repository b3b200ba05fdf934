package apimachinery

import (
	"net/http"
	"strings"

	"github.com/notaris/notaris/sdk"
)

// publicPathSubstrings identifies authentication-related endpoints. A 401 from
// one of these is a normal, expected error (a failed sign-in, say), not a
// session event, and passes through unchanged.
var publicPathSubstrings = []string{
	"signin",
	"signup",
	"refresh",
	"reset-password",
}

// IsPublicPath reports whether the given URL path belongs to a public
// authentication endpoint.
func IsPublicPath(path string) bool {
	for _, substring := range publicPathSubstrings {
		if strings.Contains(path, substring) {
			return true
		}
	}
	return false
}

// UnauthorizedInterceptor is the second stage of the pipeline. When a
// protected endpoint answers 401, the session is over: the interceptor fires
// the termination callback and suppresses the error, so the original caller
// sees a silently completed empty result. Feature code therefore never needs
// 401-specific handling; the visible consequence is the route guard's redirect
// on the next navigation. The callback runs synchronously, before the call
// returns, so session state is already cleared by the time the caller resumes.
func UnauthorizedInterceptor(onSessionTerminated func()) Interceptor {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err == nil {
				return resp, nil
			}
			if _, ok := err.(*sdk.ErrAuthentication); !ok {
				return resp, err
			}
			if IsPublicPath(req.URL.Path) {
				return resp, err
			}
			if onSessionTerminated != nil {
				onSessionTerminated()
			}
			return nil, nil
		}
	}
}
