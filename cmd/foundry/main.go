// Package main is the entry point for the foundry CLI.
package main

import (
	"os"

	"github.com/rkuzmin/foundry/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
