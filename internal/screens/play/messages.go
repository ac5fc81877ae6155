package play

import (
	"github.com/skanda/quizquest/internal/grading"
)

// gradeResultMsg is sent when grading of the current answer finished.
// For subjective answers this arrives asynchronously from the backend.
type gradeResultMsg struct {
	QuestionID string
	Answer     string
	Result     *grading.GradeResult
	Err        error
}

// levelDoneMsg is sent to trigger the end-of-round flow.
type levelDoneMsg struct{}
