package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagEmail      = "email"
	flagFileServer = "file-server"
	flagID         = "id"
	flagInsecure   = "insecure"
	flagOutput     = "output"
	flagPassword   = "password"
	flagSaveTokens = "save-tokens"
	flagServer     = "server"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: " +
			"table, yaml, json",
		Value: "table",
	}
)

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table", "yaml", "json":
		return nil
	}
	return errors.Errorf("unknown output format %q", output)
}
