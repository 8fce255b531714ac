package main

import (
	"fmt"
	"os"

	"github.com/ruslan-rv-ua/py2winapp/internal"
	"github.com/ruslan-rv-ua/py2winapp/internal/cli"
)

// The entry point for the py2winapp tool.
//
// Executes the root command; logging is configured during flag parsing.
// If any error occurs during execution, it exits with a non-zero code.
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", internal.Name, err)
		os.Exit(1)
	}
}
