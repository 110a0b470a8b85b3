// Package main provides the gregodump CLI.
package main

import (
	"os"

	"github.com/cantus-labs/gregodump/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
