// Command bioscout-setup scaffolds a local BioScout development environment.
package main

import (
	"os"

	"github.com/bioscout/bioscout-setup/internal/cli"
	"github.com/bioscout/bioscout-setup/internal/errors"
)

func main() {
	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
