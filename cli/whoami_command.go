package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var whoamiCommand = &cli.Command{
	Name:  "whoami",
	Usage: "Show the signed-in user",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: whoami,
}

func whoami(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	a, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting notaris client")
	}

	user, err := a.client.Auth().Me(c.Context)
	if err != nil {
		return describeError(err)
	}
	// A 401 on a protected endpoint completes silently; the termination flag
	// is how we tell an expired session from an empty answer.
	if a.terminated {
		return errors.New(
			"your session has expired; please `notaris login` again",
		)
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "NAME", "EMAIL", "PROFILE")
		table.AddRow(
			user.ID,
			fmt.Sprintf("%s %s", user.FirstName, user.LastName),
			user.Email,
			user.Profile,
		)
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(user)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from whoami operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from whoami operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
