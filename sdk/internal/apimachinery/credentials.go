package apimachinery

import (
	"fmt"
	"net/http"

	uuid "github.com/satori/go.uuid"
)

// TokenSource supplies the bearer token to attach to outgoing requests, or ""
// when none is available.
type TokenSource func() string

// CredentialsInterceptor is the first stage of the pipeline. It force-enables
// credentialed requests: cookies ride on every call via the client's shared
// jar, the bearer token (when one is available) is attached, an externally
// supplied Cookie header is merged in, and each request is stamped with a
// correlation ID. Callers cannot opt out.
func CredentialsInterceptor(
	tokenSource TokenSource,
	cookieHeader func() string,
) Interceptor {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			if tokenSource != nil {
				if token := tokenSource(); token != "" &&
					req.Header.Get("Authorization") == "" {
					req.Header.Set(
						"Authorization",
						fmt.Sprintf("Bearer %s", token),
					)
				}
			}
			if cookieHeader != nil {
				if header := cookieHeader(); header != "" {
					if existing := req.Header.Get("Cookie"); existing != "" {
						req.Header.Set(
							"Cookie",
							fmt.Sprintf("%s; %s", existing, header),
						)
					} else {
						req.Header.Set("Cookie", header)
					}
				}
			}
			req.Header.Set("X-Request-ID", uuid.NewV4().String())
			return next(req)
		}
	}
}
