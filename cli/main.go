package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/notaris/notaris/internal/version"
)

func main() {
	app := cli.NewApp()
	app.Name = "notaris"
	app.Usage = "Administer a notarial practice from the command line"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		loginCommand,
		logoutCommand,
		passwordCommand,
		registerCommand,
		whoamiCommand,
	}
	fmt.Println()
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
