// Package submission implements the study plan submission workflow: presence
// validation, a single in-flight request to the plan creator, markdown
// conversion of the reply and the view updates around it.
package submission

import (
	"context"
	"html/template"
	"sync/atomic"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/mock_submission.go -package=mocks github.com/Roelanb/studyplan/internal/submission Transport,Converter

// Transport sends one request to the plan creator.
type Transport interface {
	Send(ctx context.Context, req Request) (*Reply, error)
}

// Converter turns the reply markdown into HTML.
type Converter interface {
	Convert(markdown string) (template.HTML, error)
}

// Reply is the decoded success body of the plan creator.
type Reply struct {
	Response string `json:"response"`
	PlanID   int64  `json:"plan_id,omitempty"`
}

// Result of a successful submission.
type Result struct {
	Markdown string
	HTML     template.HTML
	PlanID   int64
}

type State int32

const (
	Idle State = iota
	InFlight
)

func (s State) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// Logger is the subset of zap.SugaredLogger the controller uses.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

type Option func(*Controller)

func WithValidation(mode ValidationMode) Option {
	return func(c *Controller) { c.mode = mode }
}

func WithLogger(log Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithName tags log lines, typically with the view id.
func WithName(name string) Option {
	return func(c *Controller) { c.name = name }
}

// Controller runs the Idle -> InFlight -> Idle cycle for one mounted view.
// At most one request is outstanding per controller.
type Controller struct {
	transport Transport
	converter Converter
	view      View
	mode      ValidationMode
	log       Logger
	name      string

	state atomic.Int32
}

func NewController(transport Transport, converter Converter, view View, opts ...Option) *Controller {
	c := &Controller{
		transport: transport,
		converter: converter,
		view:      view,
		mode:      ValidateAll,
		log:       zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// DismissError hides the error region.
func (c *Controller) DismissError() {
	c.view.HideError()
}

// Submit handles one activation of the trigger control.
func (c *Controller) Submit(ctx context.Context, req Request) (*Result, error) {
	if !c.state.CompareAndSwap(int32(Idle), int32(InFlight)) {
		c.log.Debugw("submit ignored, request in flight", "view", c.name)
		return nil, ErrInFlight
	}
	defer c.state.Store(int32(Idle))

	if err := Validate(req, c.mode); err != nil {
		c.fail(err)
		return nil, err
	}

	c.view.SetTriggerEnabled(false)
	c.view.SetLoading(true)
	c.view.HideError()
	defer func() {
		c.view.SetTriggerEnabled(true)
		c.view.SetLoading(false)
	}()

	reply, err := c.transport.Send(ctx, req)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	html, err := c.converter.Convert(reply.Response)
	if err != nil {
		err = &PayloadError{Reason: "render markdown", Err: err}
		c.fail(err)
		return nil, err
	}
	c.view.ShowResponse(html)
	return &Result{Markdown: reply.Response, HTML: html, PlanID: reply.PlanID}, nil
}

func (c *Controller) fail(err error) {
	c.log.Warnw("study plan submission failed", "view", c.name, "kind", Kind(err), "error", err)
	c.view.ShowError(Message(err))
}
