package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skanda/quizquest/internal/backend"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the level catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		var client backend.Client
		if offline, _ := cmd.Flags().GetBool("offline"); offline {
			client = backend.NewOfflineMockClient()
		} else {
			cfg := backend.ConfigFromEnv()
			if u, _ := cmd.Flags().GetString("backend-url"); u != "" {
				cfg.BaseURL = u
			}
			client = backend.NewHTTPClient(cfg)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		levels, err := client.Levels(ctx)
		if err != nil {
			return fmt.Errorf("fetch level catalog: %w", err)
		}

		for _, l := range levels {
			fmt.Printf("%3d  %-10s %-32s %d MCQ + %d free\n",
				l.Number, l.Difficulty, l.Title, l.ObjectiveCount, l.SubjectiveCount)
		}
		return nil
	},
}
