package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/notaris/notaris/sdk"
	"github.com/notaris/notaris/sdk/internal/apimachinery"
)

// AuthClient is the specialized client for authentication and account
// operations. The session manager is its principal consumer; it holds no
// state of its own.
type AuthClient interface {
	// SignIn authenticates with email and password. The server establishes a
	// cookie session and may additionally return a bearer token pair.
	SignIn(context.Context, sdk.Credentials) (sdk.AuthDetails, error)
	// SignUp creates a new account and signs it in.
	SignUp(context.Context, sdk.Registration) (sdk.AuthDetails, error)
	// ResetPassword requests a password reset for the given email address.
	ResetPassword(context.Context, sdk.PasswordReset) error
	// ChangePassword changes the password of the identified user.
	ChangePassword(ctx context.Context, id string, change sdk.PasswordChange) error
	// Logout tears down the server-side session.
	Logout(context.Context) error
	// Me returns the user the current session belongs to.
	Me(context.Context) (sdk.User, error)
}

type authClient struct {
	*apimachinery.BaseClient
}

func (a *authClient) SignIn(
	ctx context.Context,
	credentials sdk.Credentials,
) (sdk.AuthDetails, error) {
	authDetails := sdk.AuthDetails{}
	return authDetails, a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v1/auth/signin",
			ReqBodyObj:  credentials,
			SuccessCode: http.StatusOK,
			RespObj:     &authDetails,
		},
	)
}

func (a *authClient) SignUp(
	ctx context.Context,
	registration sdk.Registration,
) (sdk.AuthDetails, error) {
	authDetails := sdk.AuthDetails{}
	return authDetails, a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v1/auth/signup",
			ReqBodyObj:  registration,
			SuccessCode: http.StatusCreated,
			RespObj:     &authDetails,
		},
	)
}

func (a *authClient) ResetPassword(
	ctx context.Context,
	reset sdk.PasswordReset,
) error {
	return a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v1/auth/reset-password",
			ReqBodyObj:  reset,
			SuccessCode: http.StatusOK,
		},
	)
}

func (a *authClient) ChangePassword(
	ctx context.Context,
	id string,
	change sdk.PasswordChange,
) error {
	return a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        fmt.Sprintf("v1/users/%s/password", id),
			ReqBodyObj:  change,
			SuccessCode: http.StatusOK,
		},
	)
}

func (a *authClient) Logout(ctx context.Context) error {
	return a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v1/auth/logout",
			SuccessCode: http.StatusOK,
		},
	)
}

func (a *authClient) Me(ctx context.Context) (sdk.User, error) {
	user := sdk.User{}
	return user, a.ExecuteRequest(
		ctx,
		apimachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v1/auth/me",
			SuccessCode: http.StatusOK,
			RespObj:     &user,
		},
	)
}
