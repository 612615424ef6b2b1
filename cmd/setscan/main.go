package main

import (
	"os"

	"github.com/taworn/setscan/cmd/setscan/commands"
)

// main is the entry point for the setscan CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
