package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skanda/quizquest/internal/app"
)

// runApp collects the flag overrides and launches the TUI.
func runApp(cmd *cobra.Command) error {
	opts := app.Options{}
	opts.DBPath, _ = cmd.Flags().GetString("db")
	opts.BackendURL, _ = cmd.Flags().GetString("backend-url")
	opts.Offline, _ = cmd.Flags().GetBool("offline")
	return app.Run(opts)
}
