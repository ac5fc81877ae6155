package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skanda/quizquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		s, err := st.EventRepo().Summarize(cmd.Context())
		if err != nil {
			return fmt.Errorf("summarize events: %w", err)
		}

		fmt.Printf("Quizzes built:       %d\n", s.JobsSucceeded)
		fmt.Printf("Failed uploads:      %d\n", s.JobsFailed)
		if s.ObjectiveAnswered > 0 {
			fmt.Printf("Objective accuracy:  %.0f%% (%d of %d)\n",
				float64(s.ObjectiveCorrect)/float64(s.ObjectiveAnswered)*100,
				s.ObjectiveCorrect, s.ObjectiveAnswered)
		}
		if s.SubjectiveAnswered > 0 {
			fmt.Printf("Free answers:        %d, avg score %.1f / 10\n",
				s.SubjectiveAnswered, s.SubjectiveAvgScore)
		}
		return nil
	},
}
