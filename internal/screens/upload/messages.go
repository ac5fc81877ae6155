package upload

import (
	ctl "github.com/skanda/quizquest/internal/upload"
)

// jobStartedMsg is sent when the controller accepted the submission.
type jobStartedMsg struct {
	Events <-chan ctl.Event
}

// jobStartFailedMsg is sent when the submission could not start at all,
// e.g. the file is unreadable or another job is in flight.
type jobStartFailedMsg struct {
	Err error
}

// jobEventMsg carries one controller event; Closed marks channel exhaustion.
type jobEventMsg struct {
	Event  ctl.Event
	Closed bool
}
