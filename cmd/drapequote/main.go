// Command drapequote prices curtain jobs and keeps their quotes.
package main

import (
	"os"

	"github.com/roach88/drapequote/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
