package apimachinery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaris/notaris/sdk"
)

func TestExecuteRequest(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/auth/me", r.URL.Path)
				require.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))
				require.NotEmpty(t, r.Header.Get("X-Request-ID"))
				w.Write([]byte(`{"id":"42","email":"camille@notaris.test"}`)) // nolint: errcheck
			},
		),
	)
	defer server.Close()
	client := NewBaseClient(
		server.URL,
		PipelineConfig{
			TokenSource: func() string { return "sometoken" },
		},
	)
	user := sdk.User{}
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/auth/me",
			SuccessCode: http.StatusOK,
			RespObj:     &user,
		},
	)
	require.NoError(t, err)
	require.Equal(t, "42", user.ID)
	require.Equal(t, "camille@notaris.test", user.Email)
}

func TestExecuteRequestMapsErrors(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"type":"Document","id":"42"}`)) // nolint: errcheck
			},
		),
	)
	defer server.Close()
	client := NewBaseClient(server.URL, PipelineConfig{})
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/documents/42",
			SuccessCode: http.StatusOK,
		},
	)
	require.Error(t, err)
	notFound, ok := err.(*sdk.ErrNotFound)
	require.True(t, ok)
	require.Equal(t, "Document", notFound.Type)
	require.Equal(t, "42", notFound.ID)
}

func TestExecuteRequestTransportFailure(t *testing.T) {
	client := NewBaseClient("http://localhost:0", PipelineConfig{})
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/documents",
			SuccessCode: http.StatusOK,
		},
	)
	require.Error(t, err)
	require.IsType(t, &sdk.ErrClientSide{}, err)
}

func TestExecuteRequestSuppressedOnSessionEnd(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		),
	)
	defer server.Close()
	terminated := false
	client := NewBaseClient(
		server.URL,
		PipelineConfig{
			OnSessionTerminated: func() {
				terminated = true
			},
		},
	)
	user := sdk.User{}
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/auth/me",
			SuccessCode: http.StatusOK,
			RespObj:     &user,
		},
	)
	// The caller sees a silently completed empty result.
	require.NoError(t, err)
	require.Empty(t, user.ID)
	// The callback already ran by the time the call returned.
	require.True(t, terminated)
}

func TestExecuteRequestUnauthorizedOnPublicPath(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		),
	)
	defer server.Close()
	terminated := false
	client := NewBaseClient(
		server.URL,
		PipelineConfig{
			OnSessionTerminated: func() {
				terminated = true
			},
		},
	)
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v1/auth/signin",
			SuccessCode: http.StatusOK,
		},
	)
	require.Error(t, err)
	require.IsType(t, &sdk.ErrAuthentication{}, err)
	require.False(t, terminated)
}

func TestSubmitRequestRewritesFilePaths(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content":[{"filePath":"acts/deed.pdf"}]}`)) // nolint: errcheck
			},
		),
	)
	defer server.Close()
	client := NewBaseClient(
		server.URL,
		PipelineConfig{
			FileBaseURL: testFileBaseURL,
		},
	)
	respObj := struct {
		Content []struct {
			FilePath string `json:"filePath"`
		} `json:"content"`
	}{}
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:           http.MethodGet,
			Path:             "v1/documents",
			SuccessCode:      http.StatusOK,
			RespObj:          &respObj,
			RewriteFilePaths: true,
		},
	)
	require.NoError(t, err)
	require.Len(t, respObj.Content, 1)
	require.Equal(
		t,
		testFileBaseURL+"/acts/deed.pdf",
		respObj.Content[0].FilePath,
	)
}

func TestExecuteRequestTracksActivity(t *testing.T) {
	client := NewBaseClient(
		"http://placeholder.invalid",
		PipelineConfig{},
	)
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.True(t, client.Activity().Busy())
			},
		),
	)
	defer server.Close()
	client.APIAddress = server.URL
	require.False(t, client.Activity().Busy())
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/documents",
			SuccessCode: http.StatusOK,
		},
	)
	require.NoError(t, err)
	require.False(t, client.Activity().Busy())
}
