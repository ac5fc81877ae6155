package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skanda/quizquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizquest",
	Short: "Adaptive quiz app built from your own documents",
	Long:  "QuizQuest — terminal app that turns study documents into a 30-level adaptive quiz.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZQUEST_DB env var)")
	rootCmd.PersistentFlags().String("backend-url", "", "Assessment backend base URL (overrides QUIZQUEST_BACKEND_URL env var)")
	rootCmd.PersistentFlags().Bool("offline", false, "Run against the built-in mock backend instead of HTTP")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZQUEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
