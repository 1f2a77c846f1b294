// Package submission drives one resume analysis from user input to a stored
// result or error message.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/resumefit/internal/model"
)

// ErrSuperseded is returned by Run when a newer submission started before
// this one settled. Its outcome is dropped from the controller state.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// Status is the UI state derived from a snapshot.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusDone:
		return "done"
	default:
		return "idle"
	}
}

// State is a copy of the controller state at one point in time.
type State struct {
	SelectedFile string
	Description  string
	LastResult   *model.AnalysisResult
	LastError    string
	Submitting   bool
	Seq          uint64 // sequence token of the latest submission
}

// Status reports which of the four UI states s represents.
func (s State) Status() Status {
	switch {
	case s.Submitting:
		return StatusLoading
	case s.LastError != "":
		return StatusError
	case s.LastResult != nil:
		return StatusDone
	default:
		return StatusIdle
	}
}

// Hook runs after a result has been stored. Errors are logged, never shown.
type Hook func(ctx context.Context, rec model.Record) error

// Options parameterizes a controller for one view.
type Options struct {
	View      string
	BusyGuard bool // reject Begin while a submission is in flight

	// Open reads the selected resume. Defaults to os.Open.
	Open func(path string) (io.ReadCloser, error)
	// LinkFor builds the report URL recorded for hooks. Optional.
	LinkFor func(reportPath string) string
}

// Ticket is one submission that passed validation and awaits its network call.
type Ticket struct {
	seq         uint64
	file        string
	description string
}

// Seq returns the ticket's sequence token.
func (t *Ticket) Seq() uint64 { return t.seq }

// Controller holds the state of one submission view.
// It is safe for concurrent use; the network call runs without the lock.
type Controller struct {
	mu    sync.Mutex
	state State

	analyzer model.Analyzer
	opts     Options
	hooks    []Hook
	logger   *slog.Logger
	now      func() time.Time
}

// NewController creates a controller submitting through analyzer.
func NewController(analyzer model.Analyzer, opts Options, logger *slog.Logger, hooks ...Hook) *Controller {
	if opts.Open == nil {
		opts.Open = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	return &Controller{
		analyzer: analyzer,
		opts:     opts,
		hooks:    hooks,
		logger:   logger,
		now:      time.Now,
	}
}

// SetFile selects the resume file. An empty path clears the selection.
func (c *Controller) SetFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedFile = path
}

// SetDescription replaces the job description text.
func (c *Controller) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Description = text
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BusyGuard reports whether this controller rejects re-entrant submissions.
func (c *Controller) BusyGuard() bool {
	return c.opts.BusyGuard
}

// Submit validates the input and, if it passes, performs one analysis
// request. It is Begin followed by Run.
func (c *Controller) Submit(ctx context.Context) error {
	t, err := c.Begin()
	if err != nil {
		return err
	}
	return c.Run(ctx, t)
}

// Begin is the synchronous part of a submission. With the busy guard on it
// returns model.ErrSubmitInFlight while a request is pending, leaving the
// state untouched. Otherwise it clears the previous outcome and checks that
// a file and a description are present; on failure it stores the validation
// message, supersedes any request still in flight and returns
// model.ErrMissingInput. On success the controller is marked as submitting
// and a ticket for Run is returned.
func (c *Controller) Begin() (*Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opts.BusyGuard && c.state.Submitting {
		return nil, model.ErrSubmitInFlight
	}

	c.state.LastError = ""
	c.state.LastResult = nil

	if c.state.SelectedFile == "" || c.state.Description == "" {
		// Supersede any request still in flight so its late outcome is dropped.
		c.state.Seq++
		c.state.Submitting = false
		c.state.LastError = model.MsgMissingInput
		return nil, model.ErrMissingInput
	}

	c.state.Seq++
	c.state.Submitting = true
	return &Ticket{
		seq:         c.state.Seq,
		file:        c.state.SelectedFile,
		description: c.state.Description,
	}, nil
}

// Run performs the network call for t and stores its outcome. The
// submitting flag is cleared in a deferred step, so it is reset on success,
// on failure, and when a hook panics. If a newer ticket was issued while t
// was in flight, t's outcome is dropped and ErrSuperseded is returned on
// success.
func (c *Controller) Run(ctx context.Context, t *Ticket) error {
	defer c.settle(t.seq)

	res, err := c.analyze(ctx, t)
	if err != nil {
		c.logger.Error("analysis failed", "seq", t.seq, "resume", t.file, "error", err)
		if !c.apply(t.seq, func(s *State) { s.LastError = model.UserMessage(err) }) {
			c.logger.Debug("dropping stale failure", "seq", t.seq)
		}
		return err
	}

	if !c.apply(t.seq, func(s *State) { s.LastResult = &res }) {
		c.logger.Debug("dropping stale result", "seq", t.seq)
		return ErrSuperseded
	}

	c.runHooks(ctx, t, res)
	return nil
}

func (c *Controller) analyze(ctx context.Context, t *Ticket) (model.AnalysisResult, error) {
	f, err := c.opts.Open(t.file)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: open resume: %w", model.ErrAnalysisFailed, err)
	}
	defer f.Close()

	return c.analyzer.Analyze(ctx, model.SubmissionInput{
		ResumeName:     filepath.Base(t.file),
		Resume:         f,
		JobDescription: t.description,
	})
}

// apply mutates the state only if seq is still the latest submission.
func (c *Controller) apply(seq uint64, fn func(s *State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.state.Seq {
		return false
	}
	fn(&c.state)
	return true
}

func (c *Controller) settle(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.state.Seq {
		c.state.Submitting = false
	}
}

func (c *Controller) runHooks(ctx context.Context, t *Ticket, res model.AnalysisResult) {
	if len(c.hooks) == 0 {
		return
	}
	rec := model.Record{
		ID:         uuid.NewString(),
		CreatedAt:  c.now(),
		View:       c.opts.View,
		ResumeName: filepath.Base(t.file),
		Result:     res,
	}
	if c.opts.LinkFor != nil && res.ReportPath != "" {
		rec.ReportURL = c.opts.LinkFor(res.ReportPath)
	}
	for _, h := range c.hooks {
		if err := h(ctx, rec); err != nil {
			c.logger.Warn("post-analysis hook failed", "seq", t.seq, "error", err)
		}
	}
}
