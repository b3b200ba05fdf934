package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/notaris/notaris/sdk"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Sign in to a Notaris API server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Sign in to the API server at the specified address " +
				"(required on first login)",
		},
		&cli.StringFlag{
			Name:  flagFileServer,
			Usage: "Address of the static file server documents resolve against",
		},
		&cli.StringFlag{
			Name:    flagEmail,
			Aliases: []string{"e"},
			Usage:   "Sign in as the specified user (required)",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage: "Specify the password non-interactively (prompted for " +
				"otherwise)",
		},
		&cli.BoolFlag{
			Name: flagSaveTokens,
			Usage: "Additionally persist the bearer token pair returned by " +
				"the server",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Sign out and destroy locally stored credentials",
	Action: logout,
}

var registerCommand = &cli.Command{
	Name:  "register",
	Usage: "Create a new account and sign in",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagEmail,
			Aliases: []string{"e"},
			Usage:   "Register with the specified email address (required)",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage: "Specify the password non-interactively (prompted for " +
				"otherwise)",
		},
	},
	Action: register,
}

func login(c *cli.Context) error {
	address := c.String(flagServer)
	fileBaseURL := c.String(flagFileServer)
	if address == "" {
		// Fall back on whatever server we logged in to last.
		existing, err := getConfig()
		if err != nil {
			return errors.New(
				"no server address on record; please supply one with --server",
			)
		}
		address = existing.APIAddress
		if fileBaseURL == "" {
			fileBaseURL = existing.FileBaseURL
		}
	}

	email := c.String(flagEmail)
	if email == "" {
		return errors.New("login requires the --email flag")
	}
	password, err := getPassword(c, "Password: ")
	if err != nil {
		return err
	}

	a, err := newAppClient(
		c,
		&config{
			APIAddress:  address,
			FileBaseURL: fileBaseURL,
		},
	)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	var user sdk.User
	if c.Bool(flagSaveTokens) {
		// The bearer token path is separate from cookie sessions: fetch the
		// full auth details, persist the pair, and hydrate the session
		// manager with the returned user.
		authDetails, err := a.client.Auth().SignIn(
			c.Context,
			sdk.Credentials{
				Email:    email,
				Password: password,
			},
		)
		if err != nil {
			return describeError(err)
		}
		if err := a.tokens.SetTokens(
			authDetails.AccessToken,
			authDetails.RefreshToken,
		); err != nil {
			return errors.Wrap(err, "error storing tokens")
		}
		if err := a.tokens.SetUser(authDetails.User); err != nil {
			return errors.Wrap(err, "error storing user snapshot")
		}
		a.sessions.Hydrate(authDetails.User)
		user = authDetails.User
	} else {
		if user, err = a.sessions.SignIn(
			c.Context,
			sdk.Credentials{
				Email:    email,
				Password: password,
			},
		); err != nil {
			return describeError(err)
		}
	}

	if err := a.persistCookies(); err != nil {
		return errors.Wrap(err, "error saving session")
	}

	fmt.Printf(
		"Signed in to %s as %s %s.\n",
		address,
		user.FirstName,
		user.LastName,
	)

	return nil
}

func logout(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	a, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	// Local teardown happens regardless of how the server-side call goes; the
	// session manager destroys the stored credential record as part of its
	// clear, and the error is only reported, never allowed to leave
	// credentials behind.
	logoutErr := a.sessions.Logout(c.Context)

	if err := deleteConfig(); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	if logoutErr != nil {
		fmt.Println(
			"Local credentials were destroyed, but the server could not be " +
				"reached; the server-side session may still exist.",
		)
		return logoutErr
	}

	fmt.Println("Logout was successful.")

	return nil
}

func register(c *cli.Context) error {
	email := c.String(flagEmail)
	if email == "" {
		return errors.New("register requires the --email flag")
	}

	var firstName, lastName string
	if err := survey.AskOne(
		&survey.Input{Message: "First name:"},
		&firstName,
		survey.WithValidator(survey.Required),
	); err != nil {
		return errors.Wrap(err, "error reading first name")
	}
	if err := survey.AskOne(
		&survey.Input{Message: "Last name:"},
		&lastName,
		survey.WithValidator(survey.Required),
	); err != nil {
		return errors.Wrap(err, "error reading last name")
	}
	password, err := getPassword(c, "Choose a password: ")
	if err != nil {
		return err
	}

	config, err := getConfig()
	if err != nil {
		return errors.Wrap(err, "error retrieving configuration")
	}
	a, err := newAppClient(c, config)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	user, err := a.sessions.SignUp(
		c.Context,
		sdk.Registration{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  password,
		},
	)
	if err != nil {
		return describeError(err)
	}

	if err := a.persistCookies(); err != nil {
		return errors.Wrap(err, "error saving session")
	}

	fmt.Printf("Welcome, %s %s.\n", user.FirstName, user.LastName)

	return nil
}

// getPassword returns the --password flag value or, absent that, prompts on
// the terminal without echo.
func getPassword(c *cli.Context, prompt string) (string, error) {
	if password := c.String(flagPassword); password != "" {
		return password, nil
	}
	fmt.Print(prompt)
	passwordBytes, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "error reading password")
	}
	return string(passwordBytes), nil
}

// describeError surfaces the canonical user message when the pipeline
// produced one.
func describeError(err error) error {
	if userFacing, ok := err.(sdk.UserFacingError); ok {
		return errors.New(userFacing.UserMessage())
	}
	return err
}
