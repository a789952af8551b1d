// Package main provides the churnboard CLI.
package main

import (
	"os"

	"github.com/churnlabs/churnboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
