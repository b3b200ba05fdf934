package apimachinery

import (
	"net/http"

	"github.com/notaris/notaris/sdk/activity"
)

// LoadingInterceptor is the fourth stage of the pipeline. It brackets every
// request with a begin/end pair on the shared activity tracker. The end is
// deferred so it fires on the failure path too; the counter is therefore
// symmetric under any interleaving of concurrent calls.
func LoadingInterceptor(tracker *activity.Tracker) Interceptor {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			tracker.Begin()
			defer tracker.End()
			return next(req)
		}
	}
}
