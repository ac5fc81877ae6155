// Package upload drives one submission-to-result lifecycle at a time:
// validate locally, dispatch the document, feed synthetic progress while the
// remote call is in flight, and publish the generated question set or a
// terminal error. Exactly one job may be outstanding; a second submission is
// rejected, not queued.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skanda/quizquest/internal/backend"
	"github.com/skanda/quizquest/internal/progress"
	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/store"
	"github.com/skanda/quizquest/internal/submission"
)

// Status is the job lifecycle state.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusUploading      Status = "uploading"
	StatusAwaitingResult Status = "awaiting_result"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
)

// ErrAlreadyInFlight rejects a submission while another is outstanding.
var ErrAlreadyInFlight = errors.New("a submission is already in flight")

// Event is one observation of a job: a progress tick, a status change, or
// the terminal result. After a Terminal event the channel is closed.
type Event struct {
	JobID    string
	Status   Status
	Progress int

	// Set is the generated question set. Non-nil only on the terminal
	// success event.
	Set *quiz.QuestionSet

	// Err is non-nil on the terminal failure event.
	Err error

	// Cancelled marks the terminal event of a cancelled job.
	Cancelled bool

	Terminal bool
}

// Job is a read-only snapshot of the current job.
type Job struct {
	ID       string
	FileName string
	Status   Status
	Progress int
	Err      error
}

// job is the internal mutable record. Only the controller writes it.
type job struct {
	id        string
	fileName  string
	fileSize  int64
	status    Status
	progress  int
	err       error
	cancelled bool
	finished  bool
	started   time.Time
	cancel    context.CancelFunc
	handle    *progress.Handle
	events    chan Event
}

// Controller serializes submissions and owns all ProcessingJob state.
type Controller struct {
	mu        sync.Mutex
	validator *submission.Validator
	client    backend.Client
	estimator *progress.Estimator
	eventRepo store.EventRepo
	cur       *job
}

// Option configures a Controller.
type Option func(*Controller)

// WithValidator replaces the default submission validator.
func WithValidator(v *submission.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithEstimator replaces the default progress estimator.
func WithEstimator(e *progress.Estimator) Option {
	return func(c *Controller) { c.estimator = e }
}

// WithEventRepo enables job event logging.
func WithEventRepo(repo store.EventRepo) Option {
	return func(c *Controller) { c.eventRepo = repo }
}

// NewController creates a Controller around the given backend client.
func NewController(client backend.Client, opts ...Option) *Controller {
	c := &Controller{
		validator: submission.NewValidator(),
		client:    client,
		estimator: progress.NewEstimator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a new job for sub. While a job is Uploading or
// AwaitingResult it fails with ErrAlreadyInFlight and the outstanding job
// is untouched; any terminal or idle state permits a fresh job.
//
// The returned channel carries progress and status events and ends with
// exactly one Terminal event, after which it is closed. Cancelling ctx
// cancels the job; a response arriving after cancellation is discarded.
func (c *Controller) Submit(ctx context.Context, sub *submission.Submission) (<-chan Event, error) {
	c.mu.Lock()

	if c.cur != nil && (c.cur.status == StatusUploading || c.cur.status == StatusAwaitingResult) {
		c.mu.Unlock()
		return nil, ErrAlreadyInFlight
	}

	jobCtx, cancel := context.WithCancel(ctx)
	j := &job{
		id:       uuid.NewString(),
		fileName: sub.FileName,
		fileSize: sub.Size(),
		status:   StatusIdle,
		started:  time.Now(),
		cancel:   cancel,
		events:   make(chan Event, 64),
	}
	c.cur = j

	// Local validation happens before any network effect.
	if err := c.validator.Validate(sub); err != nil {
		j.status = StatusFailed
		j.err = err
		c.emitLocked(j, Event{JobID: j.id, Status: StatusFailed, Err: err, Terminal: true})
		c.mu.Unlock()
		cancel()
		c.logJob(j, "failed")
		return j.events, nil
	}

	j.status = StatusUploading
	c.emitLocked(j, Event{JobID: j.id, Status: StatusUploading})
	c.mu.Unlock()

	// The estimator emits synchronously on Start and Stop, and its emit
	// callback takes c.mu. Starting or stopping a handle under c.mu would
	// self-deadlock, so both always happen outside the lock.
	h := c.estimator.Start(func(v int) { c.onProgress(j, v) })
	c.mu.Lock()
	j.handle = h
	stale := j.finished || j.cancelled
	c.mu.Unlock()
	if stale {
		// Cancelled in the window before the handle was registered.
		h.Stop(0)
		return j.events, nil
	}

	payload, err := submission.BuildPayload(sub)
	if err != nil {
		c.fail(j, fmt.Errorf("serialize submission: %w", err))
		return j.events, nil
	}

	go c.run(jobCtx, j, payload)

	return j.events, nil
}

// run dispatches the payload and applies the result. It is the only
// goroutine besides the estimator's timer that touches the job, and both
// funnel through the controller's mutex.
func (c *Controller) run(ctx context.Context, j *job, payload *submission.Payload) {
	c.mu.Lock()
	if j.finished {
		c.mu.Unlock()
		return
	}
	j.status = StatusAwaitingResult
	c.emitLocked(j, Event{JobID: j.id, Status: StatusAwaitingResult, Progress: j.progress})
	c.mu.Unlock()

	set, err := c.client.GenerateQuestions(ctx, payload)

	// The cancelled flag is checked here, at the point of applying the
	// result: a late response must never resurrect a cancelled job.
	c.mu.Lock()
	if j.finished || j.cancelled || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err != nil {
		c.fail(j, err)
		return
	}
	c.succeed(j, set)
}

func (c *Controller) succeed(j *job, set *quiz.QuestionSet) {
	c.mu.Lock()
	if j.finished {
		c.mu.Unlock()
		return
	}
	h := j.handle
	j.status = StatusSucceeded
	j.progress = 100
	c.emitLocked(j, Event{JobID: j.id, Status: StatusSucceeded, Progress: 100, Set: set, Terminal: true})
	c.mu.Unlock()

	// The job is already finished, so the handle's final emission is
	// dropped by onProgress rather than re-entering the event stream.
	h.Stop(100)
	j.cancel()
	c.logJob(j, "succeeded")
}

func (c *Controller) fail(j *job, err error) {
	c.mu.Lock()
	if j.finished {
		c.mu.Unlock()
		return
	}
	h := j.handle
	j.status = StatusFailed
	j.progress = 0
	j.err = err
	c.emitLocked(j, Event{JobID: j.id, Status: StatusFailed, Err: err, Terminal: true})
	c.mu.Unlock()

	if h != nil {
		h.Stop(0)
	}
	j.cancel()
	c.logJob(j, "failed")
}

// Cancel aborts the in-flight job, tears down its estimator, and returns
// the controller to Idle. A no-op when nothing is in flight.
func (c *Controller) Cancel() {
	c.mu.Lock()
	j := c.cur
	if j == nil || (j.status != StatusUploading && j.status != StatusAwaitingResult) {
		c.mu.Unlock()
		return
	}
	j.cancelled = true
	h := j.handle
	j.status = StatusIdle
	j.progress = 0
	c.emitLocked(j, Event{JobID: j.id, Status: StatusIdle, Cancelled: true, Terminal: true})
	c.mu.Unlock()

	if h != nil {
		h.Stop(0)
	}
	j.cancel()
	c.logJob(j, "cancelled")
}

// Acknowledge resets a Failed job to Idle so a new submission may start.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != nil && c.cur.status == StatusFailed {
		c.cur.status = StatusIdle
		c.cur.progress = 0
	}
}

// Job returns a snapshot of the current job, or a zero Idle job when no
// submission has been made yet.
func (c *Controller) Job() Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return Job{Status: StatusIdle}
	}
	return Job{
		ID:       c.cur.id,
		FileName: c.cur.fileName,
		Status:   c.cur.status,
		Progress: c.cur.progress,
		Err:      c.cur.err,
	}
}

// onProgress forwards estimator ticks as events. Ticks arriving after the
// job finished are dropped.
func (c *Controller) onProgress(j *job, v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if j.finished {
		return
	}
	j.progress = v
	c.emitLocked(j, Event{JobID: j.id, Status: j.status, Progress: v})
}

// emitLocked sends an event without blocking; the caller holds c.mu.
// A Terminal event marks the job finished and closes the channel.
func (c *Controller) emitLocked(j *job, ev Event) {
	if j.finished {
		return
	}
	select {
	case j.events <- ev:
	default:
		// Slow consumer: drop intermediate events rather than stall the
		// estimator. Terminal events always fit because the channel is
		// drained before another job can start.
	}
	if ev.Terminal {
		j.finished = true
		close(j.events)
	}
}

// logJob records a job outcome event; failures to log are non-fatal.
func (c *Controller) logJob(j *job, outcome string) {
	if c.eventRepo == nil {
		return
	}
	data := store.JobEventData{
		JobID:     j.id,
		FileName:  j.fileName,
		FileSize:  j.fileSize,
		Outcome:   outcome,
		LatencyMs: time.Since(j.started).Milliseconds(),
	}
	if j.err != nil {
		data.Error = j.err.Error()
	}
	if err := c.eventRepo.AppendJobEvent(context.Background(), data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log job event: %v\n", err)
	}
}
