package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaris/notaris/sdk"
)

func TestSignIn(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v1/auth/signin", r.URL.Path)
				credentials := sdk.Credentials{}
				require.NoError(
					t,
					json.NewDecoder(r.Body).Decode(&credentials),
				)
				require.Equal(t, "camille@notaris.test", credentials.Email)
				require.Equal(t, "notaire", credentials.Password)
				require.NoError(
					t,
					json.NewEncoder(w).Encode(
						sdk.AuthDetails{
							User: sdk.User{
								ID:      "42",
								Email:   credentials.Email,
								Profile: sdk.ProfileNotary,
							},
							AccessToken:  "access",
							RefreshToken: "refresh",
						},
					),
				)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	authDetails, err := client.Auth().SignIn(
		context.Background(),
		sdk.Credentials{
			Email:    "camille@notaris.test",
			Password: "notaire",
		},
	)
	require.NoError(t, err)
	require.Equal(t, "42", authDetails.User.ID)
	require.Equal(t, "access", authDetails.AccessToken)
	require.Equal(t, "refresh", authDetails.RefreshToken)
}

func TestSignInRejected(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"reason":"invalid credentials"}`)) // nolint: errcheck
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	_, err := client.Auth().SignIn(
		context.Background(),
		sdk.Credentials{
			Email:    "camille@notaris.test",
			Password: "wrong",
		},
	)
	require.Error(t, err)
	authErr, ok := err.(*sdk.ErrAuthentication)
	require.True(t, ok)
	require.Equal(t, "invalid credentials", authErr.Reason)
}

func TestSignUp(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v1/auth/signup", r.URL.Path)
				registration := sdk.Registration{}
				require.NoError(
					t,
					json.NewDecoder(r.Body).Decode(&registration),
				)
				w.WriteHeader(http.StatusCreated)
				require.NoError(
					t,
					json.NewEncoder(w).Encode(
						sdk.AuthDetails{
							User: sdk.User{
								ID:    "43",
								Email: registration.Email,
							},
						},
					),
				)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	authDetails, err := client.Auth().SignUp(
		context.Background(),
		sdk.Registration{
			FirstName: "Lucien",
			LastName:  "Garnier",
			Email:     "lucien@notaris.test",
			Password:  "clerc",
		},
	)
	require.NoError(t, err)
	require.Equal(t, "43", authDetails.User.ID)
}

func TestResetPassword(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v1/auth/reset-password", r.URL.Path)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	require.NoError(
		t,
		client.Auth().ResetPassword(
			context.Background(),
			sdk.PasswordReset{Email: "camille@notaris.test"},
		),
	)
}

func TestChangePassword(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(t, "/v1/users/42/password", r.URL.Path)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	require.NoError(
		t,
		client.Auth().ChangePassword(
			context.Background(),
			"42",
			sdk.PasswordChange{
				CurrentPassword: "notaire",
				NewPassword:     "tabellion",
			},
		),
	)
}

func TestLogout(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v1/auth/logout", r.URL.Path)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	require.NoError(t, client.Auth().Logout(context.Background()))
}

func TestMe(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v1/auth/me", r.URL.Path)
				require.NoError(
					t,
					json.NewEncoder(w).Encode(
						sdk.User{ID: "42", Email: "camille@notaris.test"},
					),
				)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	user, err := client.Auth().Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "42", user.ID)
}

func TestOnSessionTerminated(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		),
	)
	defer server.Close()
	client := NewClient(server.URL, ClientConfig{})
	fired := 0
	client.OnSessionTerminated(func() { fired++ })
	client.OnSessionTerminated(func() { fired++ })
	_, err := client.Auth().Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, fired)
}
