// Package main provides the entry point for the sugarparser CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/SugarParser/cmd/sugarparser/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load .env file if it exists; real environment variables take precedence
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	env := &commands.Env{}
	if err := commands.NewRootCommand(env, version).Execute(); err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
