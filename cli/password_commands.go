package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/notaris/notaris/sdk"
)

var passwordCommand = &cli.Command{
	Name:  "password",
	Usage: "Manage passwords",
	Subcommands: []*cli.Command{
		{
			Name:  "reset",
			Usage: "Request a password reset for an email address",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagEmail,
					Aliases:  []string{"e"},
					Usage:    "Reset the password of the specified user (required)",
					Required: true,
				},
			},
			Action: passwordReset,
		},
		{
			Name:  "change",
			Usage: "Change the signed-in user's password",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Change the password of the specified user (required)",
					Required: true,
				},
			},
			Action: passwordChange,
		},
	},
}

func passwordReset(c *cli.Context) error {
	a, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	if err := a.sessions.ResetPassword(
		c.Context,
		sdk.PasswordReset{
			Email: c.String(flagEmail),
		},
	); err != nil {
		return describeError(err)
	}

	fmt.Println("If the address is on record, a reset message is on its way.")

	return nil
}

func passwordChange(c *cli.Context) error {
	a, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	currentPassword, err := getPassword(c, "Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptNewPassword()
	if err != nil {
		return err
	}

	if err := a.sessions.ChangePassword(
		c.Context,
		c.String(flagID),
		sdk.PasswordChange{
			CurrentPassword: currentPassword,
			NewPassword:     newPassword,
		},
	); err != nil {
		return describeError(err)
	}
	// A 401 on a protected endpoint completes silently; the termination flag
	// is how we tell success from an expired session.
	if a.terminated {
		return errors.New(
			"your session has expired; please `notaris login` again",
		)
	}

	fmt.Println("Password was changed.")

	return nil
}

func promptNewPassword() (string, error) {
	fmt.Print("New password: ")
	newPasswordBytes, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "error reading new password")
	}
	fmt.Print("Confirm new password: ")
	confirmationBytes, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "error confirming new password")
	}
	if string(newPasswordBytes) != string(confirmationBytes) {
		return "", errors.New("the passwords do not match")
	}
	return string(newPasswordBytes), nil
}
