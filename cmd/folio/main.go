package main

import (
	"os"

	"github.com/folioquant/backend/cmd/folio/commands"
)

// main is the entry point for the folio CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
