package apimachinery

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/notaris/notaris/sdk/activity"
)

// PipelineConfig carries everything needed to assemble the interceptor chain.
type PipelineConfig struct {
	// TokenSource supplies the bearer token for credential attachment. May be
	// nil when only cookie sessions are in play.
	TokenSource TokenSource
	// CookieJar is installed on the HTTP client so session cookies ride on
	// every request. May be nil.
	CookieJar http.CookieJar
	// CookieHeader supplies an externally provided Cookie header to merge into
	// every request. May be nil.
	CookieHeader func() string
	// FileBaseURL is the static file server prefix applied to relative
	// filePath fields in response bodies.
	FileBaseURL string
	// OnSessionTerminated fires synchronously when a protected endpoint
	// answers 401. May be nil.
	OnSessionTerminated func()
	// Activity receives begin/end notifications for every request. May be
	// nil, in which case a private tracker is used.
	Activity *activity.Tracker
	// AllowInsecure permits TLS connections with unverifiable certificates.
	AllowInsecure bool
}

// BaseClient provides the plumbing shared by all specialized API clients: URL
// assembly, body (de)serialization, and the fixed interceptor chain applied to
// every outgoing request. Stages run in the order credentials, unauthorized
// handling, error normalization, loading bookkeeping, file path rewriting for
// the outgoing phase, and in reverse for the returning phase.
type BaseClient struct {
	APIAddress string
	HTTPClient *http.Client

	handler  Handler
	activity *activity.Tracker
}

// NewBaseClient returns a BaseClient for the API at the given address, with
// its interceptor chain assembled from the given config.
func NewBaseClient(apiAddress string, config PipelineConfig) *BaseClient {
	tracker := config.Activity
	if tracker == nil {
		tracker = activity.NewTracker()
	}
	httpClient := &http.Client{
		Jar: config.CookieJar,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.AllowInsecure, // nolint: gosec
			},
		},
	}
	chain := NewChain(
		CredentialsInterceptor(config.TokenSource, config.CookieHeader),
		UnauthorizedInterceptor(config.OnSessionTerminated),
		NormalizeErrorsInterceptor(),
		LoadingInterceptor(tracker),
		FilePathRewriteInterceptor(config.FileBaseURL),
	)
	return &BaseClient{
		APIAddress: apiAddress,
		HTTPClient: httpClient,
		handler:    chain.Wrap(httpClient.Do),
		activity:   tracker,
	}
}

// Activity returns the tracker counting this client's in-flight requests.
func (b *BaseClient) Activity() *activity.Tracker {
	return b.activity
}

// ExecuteRequest submits the request and, if a response object was provided,
// unmarshals the response body into it. A suppressed call (session terminated
// by a 401 on a protected endpoint) returns nil and leaves the response object
// untouched.
func (b *BaseClient) ExecuteRequest(
	ctx context.Context,
	req OutboundRequest,
) error {
	resp, err := b.SubmitRequest(ctx, req)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	defer resp.Body.Close()
	if req.RespObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if err := json.Unmarshal(respBodyBytes, req.RespObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

// SubmitRequest sends the request through the interceptor chain and returns
// the raw response. Both return values are nil for a suppressed call.
func (b *BaseClient) SubmitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if req.ReqBodyObj != nil {
		switch rb := req.ReqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(req.ReqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	if req.RewriteFilePaths {
		ctx = WithFilePathRewriting(ctx)
	}

	r, err := http.NewRequestWithContext(
		ctx,
		req.Method,
		fmt.Sprintf("%s/%s", b.APIAddress, req.Path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	if len(req.QueryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.QueryParams {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
	if reqBodyReader != nil && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		r.Header.Add(k, v)
	}

	resp, err := b.handler(r)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	if (req.SuccessCode == 0 && resp.StatusCode != http.StatusOK) ||
		(req.SuccessCode != 0 && resp.StatusCode != req.SuccessCode) {
		resp.Body.Close()
		return nil, errors.Errorf(
			"received %d from API server",
			resp.StatusCode,
		)
	}
	return resp, nil
}
