package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSubmissionInFlight is returned when Submit is called while a prior
// submission has not yet resolved. The form allows at most one in-flight
// submission per instance.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrNotOnReviewStep is returned when Submit is called before the final step.
var ErrNotOnReviewStep = errors.New("submission is only available from the review step")

// SubmitResult carries the outcome of a successful submission. ClaimNumber is
// "Pending" when the server accepted the claim without returning a
// recognizable identifier.
type SubmitResult struct {
	ClaimNumber string
}

// Submitter performs the final claim submission. Implementations must be
// atomic from the caller's perspective: success or a well-defined error,
// never a partial record.
type Submitter interface {
	Submit(ctx context.Context, state *FormState) (SubmitResult, error)
}

// Controller sequences the wizard steps. Forward navigation is gated on the
// current step's validation; backward navigation is unconditional.
type Controller struct {
	state     *FormState
	submitter Submitter

	current Step

	mu        sync.Mutex
	inFlight  bool
	submitted bool
	result    SubmitResult
}

// NewController creates a controller positioned on the first step.
func NewController(state *FormState, submitter Submitter) *Controller {
	return &Controller{
		state:     state,
		submitter: submitter,
		current:   StepInsurance,
	}
}

// Current returns the current step.
func (c *Controller) Current() Step {
	return c.current
}

// State returns the underlying form state.
func (c *Controller) State() *FormState {
	return c.state
}

// Next advances to the following step if the current step is valid. When the
// step is invalid the controller stays put and returns the blocking errors
// for the caller to surface.
func (c *Controller) Next() []string {
	if errs := StepErrors(c.current, c.state); len(errs) > 0 {
		return errs
	}
	if c.current < StepReview {
		c.current++
	}
	return nil
}

// Back moves to the previous step unconditionally. The step being left is not
// re-validated. No-op on the first step.
func (c *Controller) Back() {
	if c.current > StepInsurance {
		c.current--
	}
}

// Submit performs the final submission. It is only reachable from the review
// step and requires every required step to validate. On success the
// controller enters a terminal submitted state carrying the server-assigned
// claim number; on failure it stays on the review step with form state
// preserved so the claimant can retry without re-entering data.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	if c.current != StepReview {
		return SubmitResult{}, ErrNotOnReviewStep
	}
	if errs := StepErrors(StepReview, c.state); len(errs) > 0 {
		return SubmitResult{}, fmt.Errorf("form is incomplete: %d required field(s) missing", len(errs))
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	result, err := c.submitter.Submit(ctx, c.state)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return SubmitResult{}, err
	}
	c.submitted = true
	c.result = result
	return result, nil
}

// Submitted reports whether the wizard has reached its terminal state, and if
// so, the submission result.
func (c *Controller) Submitted() (SubmitResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.submitted
}
