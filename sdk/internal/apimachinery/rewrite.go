package apimachinery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// filePathField is the response body field holding a file-server-relative
// document path.
const filePathField = "filePath"

type rewriteContextKey struct{}

// WithFilePathRewriting marks the request context so the final pipeline stage
// rewrites filePath fields in the response body.
func WithFilePathRewriting(ctx context.Context) context.Context {
	return context.WithValue(ctx, rewriteContextKey{}, true)
}

func filePathRewritingEnabled(ctx context.Context) bool {
	enabled, ok := ctx.Value(rewriteContextKey{}).(bool)
	return ok && enabled
}

// FilePathRewriteInterceptor is the fifth and innermost stage of the
// pipeline. On success, and only for requests that opted in, it walks the
// JSON response body and prefixes every relative filePath field with the file
// server's base URL. It runs before any other response handling since it is
// closest to the wire.
func FilePathRewriteInterceptor(fileBaseURL string) Interceptor {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err != nil || resp == nil || fileBaseURL == "" {
				return resp, err
			}
			if !filePathRewritingEnabled(req.Context()) {
				return resp, nil
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return resp, nil
			}
			bodyBytes, err := ioutil.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, errors.Wrap(err, "error reading response body")
			}
			var body interface{}
			if err := json.Unmarshal(bodyBytes, &body); err != nil {
				// Not JSON; pass the body through untouched.
				resp.Body = ioutil.NopCloser(bytes.NewBuffer(bodyBytes))
				return resp, nil
			}
			body = RewriteFilePaths(body, fileBaseURL)
			rewrittenBytes, err := json.Marshal(body)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling rewritten body")
			}
			resp.Body = ioutil.NopCloser(bytes.NewBuffer(rewrittenBytes))
			resp.ContentLength = int64(len(rewrittenBytes))
			return resp, nil
		}
	}
}

// RewriteFilePaths recursively walks a decoded JSON value and prefixes every
// relative filePath string with the given base URL. Objects, arrays, and
// pagination envelopes (a nested content array) are all traversed; non-object
// leaves and missing fields are tolerated. Already-absolute paths are left
// untouched, so rewriting is idempotent. Decoded JSON cannot contain reference
// cycles, so the recursion terminates.
func RewriteFilePaths(value interface{}, baseURL string) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, nested := range typed {
			if key == filePathField {
				if path, ok := nested.(string); ok && !isAbsoluteURL(path) {
					typed[key] = joinURL(baseURL, path)
					continue
				}
			}
			typed[key] = RewriteFilePaths(nested, baseURL)
		}
		return typed
	case []interface{}:
		for i, nested := range typed {
			typed[i] = RewriteFilePaths(nested, baseURL)
		}
		return typed
	default:
		return value
	}
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://")
}

func joinURL(baseURL, path string) string {
	return fmt.Sprintf(
		"%s/%s",
		strings.TrimSuffix(baseURL, "/"),
		strings.TrimPrefix(path, "/"),
	)
}
