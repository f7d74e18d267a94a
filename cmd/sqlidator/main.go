// Package main is the sqlidator command.
package main

import (
	"os"

	"github.com/sqlidator/sqlidator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
