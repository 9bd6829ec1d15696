// Package main provides the proplink CLI.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/proplink/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
