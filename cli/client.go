package main

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/notaris/notaris/sdk/api"
	"github.com/notaris/notaris/sdk/credentials"
	"github.com/notaris/notaris/sdk/session"
	"github.com/notaris/notaris/sdk/tokens"
)

// appClient bundles everything a command needs: the API client, the session
// manager, the token service over the file-backed credential store, and the
// cookie jar whose contents persist across invocations through the config
// file.
type appClient struct {
	config   *config
	client   api.Client
	sessions session.Manager
	tokens   tokens.Service
	jar      http.CookieJar

	// terminated flips when the pipeline reports the session was ended by a
	// 401 on a protected endpoint; commands check it to tell "no data" apart
	// from "session expired".
	terminated bool
}

func newAppClient(c *cli.Context, config *config) (*appClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating cookie jar")
	}
	cookieStore, err := credentials.NewCookieStore(config.APIAddress, jar)
	if err != nil {
		return nil, errors.Wrap(err, "error creating cookie store")
	}
	credentialsDir, err := getCredentialsDir()
	if err != nil {
		return nil, err
	}
	fileStore, err := credentials.NewFileStore(credentialsDir, cookieStore)
	if err != nil {
		return nil, errors.Wrap(err, "error creating credentials store")
	}
	tokenService := tokens.NewService(fileStore)

	a := &appClient{
		config: config,
		tokens: tokenService,
		jar:    jar,
	}
	a.client = api.NewClient(
		config.APIAddress,
		api.ClientConfig{
			TokenSource: func() string {
				token, found, err := tokenService.AccessToken()
				if err != nil || !found {
					return ""
				}
				return token
			},
			CookieJar: jar,
			CookieHeader: func() string {
				return config.CookieHeader
			},
			FileBaseURL:   config.FileBaseURL,
			AllowInsecure: c.Bool(flagInsecure),
		},
	)
	a.sessions = session.NewManager(a.client, tokenService)
	a.client.OnSessionTerminated(func() {
		a.terminated = true
	})
	return a, nil
}

// getClient builds an appClient from the saved configuration.
func getClient(c *cli.Context) (*appClient, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving configuration")
	}
	return newAppClient(c, config)
}

// persistCookies captures the session cookies the server set during this
// invocation and saves them so the next invocation can present them again.
func (a *appClient) persistCookies() error {
	originURL, err := url.Parse(a.config.APIAddress)
	if err != nil {
		return errors.Wrapf(
			err,
			"error parsing API address %q",
			a.config.APIAddress,
		)
	}
	pairs := []string{}
	for _, cookie := range a.jar.Cookies(originURL) {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	a.config.CookieHeader = strings.Join(pairs, "; ")
	return saveConfig(a.config)
}
