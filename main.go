package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/shipnotes/shipnotes/cmd"
	"github.com/shipnotes/shipnotes/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures. Anything else came from cobra's
		// argument and flag validation.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitUsage)
		}
		os.Exit(exitErr.Code)
	}
}
