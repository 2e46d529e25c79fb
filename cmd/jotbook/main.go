package main

import (
	"os"

	"github.com/jotbook-dev/jotbook/internal/commands"
	"github.com/jotbook-dev/jotbook/internal/logging"
)

func main() {
	logging.Setup()
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
