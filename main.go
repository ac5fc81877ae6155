package main

import (
	"os"

	"github.com/skanda/quizquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
