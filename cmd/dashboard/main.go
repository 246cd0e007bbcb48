package main

import (
	"os"

	"github.com/lucasrodor/projeto-financeiro/cmd/dashboard/commands"
)

// main is the entry point for the dashboard CLI
// ⭐ CLI única: go run ./cmd/dashboard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
