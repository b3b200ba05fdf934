package apimachinery

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFileBaseURL = "https://files.notaris.test"

func TestRewriteFilePaths(t *testing.T) {
	body := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{
				filePathField: "x/y.pdf",
			},
			map[string]interface{}{
				filePathField: "https://host/z.pdf",
			},
		},
	}

	rewritten := RewriteFilePaths(body, testFileBaseURL).(map[string]interface{})
	items := rewritten["items"].([]interface{})
	require.Equal(
		t,
		fmt.Sprintf("%s/x/y.pdf", testFileBaseURL),
		items[0].(map[string]interface{})[filePathField],
	)
	// Absolute paths are left alone.
	require.Equal(
		t,
		"https://host/z.pdf",
		items[1].(map[string]interface{})[filePathField],
	)

	// Applying the rewrite again changes nothing.
	again := RewriteFilePaths(rewritten, testFileBaseURL).(map[string]interface{})
	require.Equal(t, rewritten, again)
}

func TestRewriteFilePathsEnvelope(t *testing.T) {
	body := map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"id":          "1",
				filePathField: "/acts/deed.pdf",
			},
		},
		"totalElements": float64(1),
	}
	rewritten := RewriteFilePaths(body, testFileBaseURL).(map[string]interface{})
	content := rewritten["content"].([]interface{})
	require.Equal(
		t,
		fmt.Sprintf("%s/acts/deed.pdf", testFileBaseURL),
		content[0].(map[string]interface{})[filePathField],
	)
	require.Equal(t, float64(1), rewritten["totalElements"])
}

func TestRewriteFilePathsTolerantOfShapes(t *testing.T) {
	// Scalars, nulls, and a non-string filePath all pass through unchanged.
	require.Equal(t, "plain", RewriteFilePaths("plain", testFileBaseURL))
	require.Nil(t, RewriteFilePaths(nil, testFileBaseURL))
	body := map[string]interface{}{filePathField: float64(7)}
	rewritten := RewriteFilePaths(body, testFileBaseURL).(map[string]interface{})
	require.Equal(t, float64(7), rewritten[filePathField])
}

func TestFilePathRewriteInterceptor(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"filePath":"x/y.pdf"}`)
			},
		),
	)
	defer server.Close()
	handler := FilePathRewriteInterceptor(testFileBaseURL)(
		http.DefaultClient.Do,
	)

	// Opted in: the body comes back rewritten.
	req, err := http.NewRequestWithContext(
		WithFilePathRewriting(context.Background()),
		http.MethodGet,
		server.URL,
		nil,
	)
	require.NoError(t, err)
	resp, err := handler(req)
	require.NoError(t, err)
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.JSONEq(
		t,
		fmt.Sprintf(`{"filePath":"%s/x/y.pdf"}`, testFileBaseURL),
		string(bodyBytes),
	)

	// Not opted in: untouched.
	req, err = http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err = handler(req)
	require.NoError(t, err)
	bodyBytes, err = ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.JSONEq(t, `{"filePath":"x/y.pdf"}`, string(bodyBytes))
}

func TestFilePathRewriteInterceptorNonJSON(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json at all")
			},
		),
	)
	defer server.Close()
	handler := FilePathRewriteInterceptor(testFileBaseURL)(
		http.DefaultClient.Do,
	)
	req, err := http.NewRequestWithContext(
		WithFilePathRewriting(context.Background()),
		http.MethodGet,
		server.URL,
		nil,
	)
	require.NoError(t, err)
	resp, err := handler(req)
	require.NoError(t, err)
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "not json at all", string(bodyBytes))
}
