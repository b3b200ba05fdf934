package apimachinery

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/notaris/notaris/sdk"
)

// NormalizeErrorsInterceptor is the third stage of the pipeline. Every HTTP
// failure is mapped, centrally and exactly once, into the typed error
// taxonomy: transport errors (no response received) become ErrClientSide, and
// server statuses become the matching typed error with its canonical user
// message. The HTTP response code hints at what sort of error might be in the
// body of the response; whatever detail the body carries is unmarshaled into
// the typed error.
func NormalizeErrorsInterceptor() Interceptor {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err != nil {
				return nil, sdk.NewErrClientSide(err)
			}
			if resp == nil ||
				(resp.StatusCode >= 200 && resp.StatusCode < 300) {
				return resp, nil
			}
			defer resp.Body.Close()
			var apiErr error
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				apiErr = &sdk.ErrAuthentication{}
			case http.StatusForbidden:
				apiErr = &sdk.ErrAuthorization{}
			case http.StatusBadRequest:
				apiErr = &sdk.ErrBadRequest{}
			case http.StatusNotFound:
				apiErr = &sdk.ErrNotFound{}
			case http.StatusConflict:
				apiErr = &sdk.ErrConflict{}
			case http.StatusInternalServerError:
				apiErr = &sdk.ErrInternalServer{}
			default:
				bodyBytes, err := ioutil.ReadAll(resp.Body)
				if err != nil {
					return nil, errors.Wrap(
						err,
						"error reading error response body",
					)
				}
				return nil, sdk.NewErrUnrecognized(
					resp.StatusCode,
					serverReason(bodyBytes),
				)
			}
			bodyBytes, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return nil, errors.Wrap(err, "error reading error response body")
			}
			// A body that doesn't parse still yields the typed error; the
			// canonical message does not depend on server detail.
			json.Unmarshal(bodyBytes, apiErr) // nolint: errcheck
			return nil, apiErr
		}
	}
}

// serverReason extracts a human-readable message from an error response body.
func serverReason(bodyBytes []byte) string {
	reason := struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(bodyBytes, &reason); err != nil {
		return string(bodyBytes)
	}
	if reason.Reason != "" {
		return reason.Reason
	}
	return reason.Message
}
