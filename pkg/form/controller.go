// Package form holds the waitlist form controller shared by the web and
// terminal surfaces. The controller owns the field values, the submission
// phase and the result message, and runs at most one submission at a time.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/models"
)

const (
	// DefaultSuccessMessage is shown when the endpoint does not supply a message
	DefaultSuccessMessage = "Successfully submitted!"
	// GenericErrorMessage is the only error text a user ever sees
	GenericErrorMessage = "Something went wrong. Please try again."

	// SubmitLabel is the submit control's text while it is enabled
	SubmitLabel = "Join the Waitlist"
	// SubmittingLabel replaces SubmitLabel while a submission is outstanding
	SubmittingLabel = "Submitting..."
)

var (
	// ErrClosed is returned by Begin after Close
	ErrClosed = errors.New("form controller closed")
	// ErrInFlight is returned by Begin while a submission is outstanding
	ErrInFlight = errors.New("submission already in progress")
	// ErrIncomplete is returned by Begin when a required field is empty.
	// The wrapping error names the empty fields.
	ErrIncomplete = errors.New("required fields missing")
)

// Registrar delivers a registration to the waitlist backend
type Registrar interface {
	Register(ctx context.Context, req models.RegistrationRequest) (models.RegistrationResponse, error)
}

// Attempt identifies one submission. Outcomes are only applied while the
// attempt is still the controller's current one.
type Attempt struct {
	id      uint64
	Request models.RegistrationRequest
}

// State is a point-in-time copy of the controller
type State struct {
	Request models.RegistrationRequest
	Result  Result
}

// Submitting reports whether a submission is outstanding
func (s State) Submitting() bool {
	return s.Result.Phase == PhaseSubmitting
}

// SubmitLabel is the text of the submit control
func (s State) SubmitLabel() string {
	if s.Submitting() {
		return SubmittingLabel
	}
	return SubmitLabel
}

// Controller collects and submits one RegistrationRequest
type Controller struct {
	registrar Registrar
	logger    *zap.Logger

	mu      sync.Mutex
	request models.RegistrationRequest
	result  Result
	seq     uint64
	closed  bool

	lifetime context.Context
	stop     context.CancelFunc
}

// Option customises a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequest seeds the initial field values
func WithRequest(req models.RegistrationRequest) Option {
	return func(c *Controller) {
		c.request = req
	}
}

// NewController creates an idle controller with empty fields
func NewController(registrar Registrar, opts ...Option) *Controller {
	lifetime, stop := context.WithCancel(context.Background())
	c := &Controller{
		registrar: registrar,
		logger:    zap.NewNop(),
		result:    Idle(),
		lifetime:  lifetime,
		stop:      stop,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// UpdateField sets one field. A finished result is cleared back to idle; an
// outstanding submission is left alone.
func (c *Controller) UpdateField(field models.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.request.Set(field, value); err != nil {
		return err
	}
	if c.result.Done() {
		c.result = Idle()
	}
	return nil
}

// State returns a snapshot of the fields and the current result
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Request: c.request, Result: c.result}
}

// Begin starts a submission of the current fields. No request is issued when
// it returns an error.
func (c *Controller) Begin() (Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Attempt{}, ErrClosed
	}
	if c.result.Phase == PhaseSubmitting {
		return Attempt{}, ErrInFlight
	}
	if missing := c.request.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return Attempt{}, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(names, ", "))
	}

	c.seq++
	c.result = Submitting()
	return Attempt{id: c.seq, Request: c.request}, nil
}

// Run performs the network call for an attempt and applies its outcome.
// The call is cancelled if the controller is closed meanwhile.
func (c *Controller) Run(ctx context.Context, attempt Attempt) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.lifetime, cancel)
	defer stop()

	resp, err := c.register(ctx, attempt.Request)
	return c.Complete(attempt, resp, err)
}

func (c *Controller) register(ctx context.Context, req models.RegistrationRequest) (resp models.RegistrationResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registrar panicked: %v", r)
		}
	}()
	if c.registrar == nil {
		return resp, errors.New("no registrar configured")
	}
	return c.registrar.Register(ctx, req)
}

// Complete applies the outcome of an attempt. Outcomes for a closed controller
// or a superseded attempt are dropped.
func (c *Controller) Complete(attempt Attempt, resp models.RegistrationResponse, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || attempt.id != c.seq || c.result.Phase != PhaseSubmitting {
		c.logger.Debug("discarding stale submission outcome",
			zap.Uint64("attempt", attempt.id),
			zap.Bool("closed", c.closed),
			zap.Error(err))
		return c.result
	}

	if err != nil {
		c.logger.Error("waitlist submission failed", zap.Uint64("attempt", attempt.id), zap.Error(err))
		c.result = Failed(GenericErrorMessage)
		return c.result
	}

	message := resp.Message
	if strings.TrimSpace(message) == "" {
		message = DefaultSuccessMessage
	}
	c.result = Succeeded(message)
	c.request = models.RegistrationRequest{}
	return c.result
}

// Submit runs Begin and Run back to back
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	attempt, err := c.Begin()
	if err != nil {
		return c.State().Result, err
	}
	return c.Run(ctx, attempt), nil
}

// Close tears the controller down. An outstanding request is cancelled and
// its outcome ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stop()
}
