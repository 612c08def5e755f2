package flow

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/f3rmion/senti/internal/sentiment"
)

// Classifier is the remote classification collaborator.
type Classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Result, error)
}

// Recorder stores successful classifications.
type Recorder interface {
	Save(ctx context.Context, text string, r sentiment.Result) error
}

// Options configures a Controller.
type Options struct {
	MinLength int           // Defaults to sentiment.MinLength
	Timeout   time.Duration // Bound on a single request; zero means none
	Recorder  Recorder      // Optional
	Logger    *slog.Logger  // Optional
}

// Attempt identifies one accepted submission.
type Attempt struct {
	ID   uint64
	Text string // Trimmed input sent to the classifier
}

// Outcome is the result of running an Attempt.
type Outcome struct {
	Attempt Attempt
	Result  sentiment.Result
	Err     error
}

// Controller owns the UI State and drives it through the submission
// lifecycle. Transition methods must be called from a single goroutine;
// Run touches no state and may be called from any goroutine.
type Controller struct {
	classifier Classifier
	recorder   Recorder
	logger     *slog.Logger
	minLength  int
	timeout    time.Duration

	state    State
	seq      uint64
	inflight Attempt
}

// NewController creates a controller on the form screen in the Idle state.
func NewController(c Classifier, opts Options) *Controller {
	if opts.MinLength <= 0 {
		opts.MinLength = sentiment.MinLength
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		classifier: c,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		minLength:  opts.MinLength,
		timeout:    opts.Timeout,
		state: State{
			Screen:     ScreenForm,
			Submission: SubmissionIdle,
		},
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state
}

// MinLength returns the validation threshold in use.
func (c *Controller) MinLength() int {
	return c.minLength
}

// InFlight returns the pending attempt, if any.
func (c *Controller) InFlight() (Attempt, bool) {
	if c.state.Submission != SubmissionPending {
		return Attempt{}, false
	}
	return c.inflight, true
}

// OnInputChanged records new raw input and revalidates it.
func (c *Controller) OnInputChanged(raw string) State {
	c.state.Input = raw
	c.state.Verdict = sentiment.ValidateMin(raw, c.minLength)
	if c.state.Submission != SubmissionPending {
		c.state.Advisory = c.state.Verdict.Advisory
	}
	return c.state
}

// OnSubmitRequested starts a submission of the current input. It returns
// false, leaving the submission state unchanged, when a request is already
// pending or the input does not validate.
func (c *Controller) OnSubmitRequested() (Attempt, bool) {
	if c.state.Submission == SubmissionPending {
		c.logger.Debug("submit ignored, request pending", "attempt", c.inflight.ID)
		return Attempt{}, false
	}

	c.state.Verdict = sentiment.ValidateMin(c.state.Input, c.minLength)
	if !c.state.Verdict.Valid {
		c.state.Advisory = sentiment.RejectAdvisory(c.minLength)
		return Attempt{}, false
	}

	c.seq++
	c.inflight = Attempt{ID: c.seq, Text: strings.TrimSpace(c.state.Input)}
	c.state.Submission = SubmissionPending
	c.state.Advisory = AdvisorySending

	c.logger.Info("submitting", "attempt", c.inflight.ID, "chars", len([]rune(c.inflight.Text)))
	return c.inflight, true
}

// Run performs the single outbound request for a. Successful results are
// also saved to the recorder, if any.
func (c *Controller) Run(ctx context.Context, a Attempt) Outcome {
	res, err := c.classify(ctx, a.Text)
	if err != nil {
		return Outcome{Attempt: a, Err: err}
	}

	if c.recorder != nil {
		if err := c.recorder.Save(ctx, a.Text, res); err != nil {
			c.logger.Warn("saving history", "attempt", a.ID, "error", err)
		}
	}

	return Outcome{Attempt: a, Result: res}
}

// classify bounds a single request by the configured timeout.
func (c *Controller) classify(ctx context.Context, text string) (sentiment.Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.classifier.Classify(ctx, text)
}

// Complete applies the outcome of the pending attempt as a single
// transition. Outcomes for any other attempt are ignored.
func (c *Controller) Complete(o Outcome) State {
	if c.state.Submission != SubmissionPending || o.Attempt.ID != c.inflight.ID {
		c.logger.Debug("stale outcome ignored", "attempt", o.Attempt.ID)
		return c.state
	}

	next := c.state
	if o.Err != nil {
		c.logger.Error("classification failed", "attempt", o.Attempt.ID, "error", o.Err)
		next.Submission = SubmissionError
		next.Advisory = AdvisoryErrorPrefix + o.Err.Error()
		c.state = next
		return c.state
	}

	if entry, ok := sentiment.Present(o.Result.Label); ok {
		next.Rendering = &Rendering{
			Text:    o.Attempt.Text,
			Entry:   entry,
			Percent: o.Result.Probability,
		}
	} else {
		// Unknown labels keep the previous rendering.
		c.logger.Warn("unrecognized label", "attempt", o.Attempt.ID, "label", o.Result.Label)
	}

	c.logger.Info("classified", "attempt", o.Attempt.ID, "label", o.Result.Label, "percent", o.Result.Probability)

	next = GoTo(next, ScreenResult)
	next.Input = ""
	next.Verdict = sentiment.ValidateMin("", c.minLength)
	next.Advisory = ""
	next.Submission = SubmissionIdle
	c.state = next
	return c.state
}

// OnBackRequested returns to the form screen.
func (c *Controller) OnBackRequested() State {
	c.state = GoTo(c.state, ScreenForm)
	return c.state
}

// Submit runs a whole submission synchronously. It returns false when the
// submission was rejected.
func (c *Controller) Submit(ctx context.Context) (State, bool) {
	a, ok := c.OnSubmitRequested()
	if !ok {
		return c.state, false
	}
	return c.Complete(c.Run(ctx, a)), true
}
