package webhook

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/marcelsud/webhook-workflow/archive"
	"github.com/marcelsud/webhook-workflow/diaglog"
	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/workflow"
	"github.com/rs/zerolog"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase handles one inbound webhook request end to end
type UseCase interface {
	Handle(ctx context.Context, req *Request) Response
	Variant() Variant
}

// Recorder receives lifecycle measurements
type Recorder interface {
	RecordState(ctx context.Context, variant string, state State)
	RecordRun(ctx context.Context, variant, workflowType string, elapsed time.Duration, err error)
}

type Service struct {
	Hooks   hook.Reader
	Engine  workflow.Engine
	variant Variant
	diag    diaglog.Logger
	archive archive.Archiver
	metrics Recorder
	logger  zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithDiagnosticLog sets where swallowed failures are written
func WithDiagnosticLog(l diaglog.Logger) Option {
	return func(s *Service) { s.diag = l }
}

// WithArchiver stores every normalized payload
func WithArchiver(a archive.Archiver) Option {
	return func(s *Service) { s.archive = a }
}

// WithRecorder reports lifecycle metrics
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithLogger sets the structured logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new webhook service with dependency injection
func NewService(hooks hook.Reader, engine workflow.Engine, variant Variant, opts ...Option) *Service {
	s := &Service{
		Hooks:   hooks,
		Engine:  engine,
		variant: variant,
		diag:    diaglog.Nop{},
		metrics: nopRecorder{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Variant returns the variant this service was built for
func (s *Service) Variant() Variant {
	return s.variant
}

// Handle runs Received -> Matched|Unmatched -> Processed -> Responded.
// Failures degrade to 404; only unexpected panics produce a 500.
func (s *Service) Handle(ctx context.Context, req *Request) (resp Response) {
	state := Received
	s.metrics.RecordState(ctx, s.variant.Name(), state)

	defer func() {
		if p := recover(); p != nil {
			s.diag.Log(s.variant.Name(), fmt.Sprintf("unhandled failure: %v", p))
			s.logger.Error().
				Str("variant", s.variant.Name()).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("webhook flow panicked")
			resp = InternalError()
		}
		s.metrics.RecordState(ctx, s.variant.Name(), Responded)
	}()

	h, inst, err := s.resolve(ctx, req)
	if err != nil {
		s.advance(ctx, &state, Unmatched)
		// a miss is routine; the diagnostic file is for failures
		if !errors.Is(err, ErrNoHookMatched) {
			s.diag.Log(s.variant.Name(), err.Error())
		}
		s.logger.Info().
			Str("variant", s.variant.Name()).
			Str("method", req.Method).
			Str("path", req.Path).
			Err(err).
			Msg("request not matched")
		return NotFound()
	}
	s.advance(ctx, &state, Matched)

	payload := Normalize(req, h)
	if err := s.variant.PopulateAttributes(inst, h, req, payload); err != nil {
		s.diag.Log(s.variant.Name(), fmt.Sprintf("populating attributes for hook %s: %v", h.ID, err))
		s.logger.Error().Str("hook_id", h.ID).Err(err).Msg("populating workflow attributes")
		return InternalError()
	}
	s.store(ctx, h, inst)

	start := time.Now()
	outcome, err := s.Engine.Run(ctx, inst)
	s.metrics.RecordRun(ctx, s.variant.Name(), h.WorkflowTypeID, time.Since(start), err)
	if err != nil {
		s.diag.Log(s.variant.Name(), fmt.Sprintf("workflow %s for hook %s reported: %v", h.WorkflowTypeID, h.ID, err))
		s.logger.Warn().
			Str("variant", s.variant.Name()).
			Str("hook_id", h.ID).
			Str("workflow_type", h.WorkflowTypeID).
			Err(err).
			Msg("workflow run failed")
	}
	s.advance(ctx, &state, Processed)

	s.logger.Debug().
		Str("variant", s.variant.Name()).
		Str("hook_id", h.ID).
		Str("instance_id", inst.ID).
		Msg("workflow processed")

	return s.variant.RenderResponse(outcome, h)
}

// resolve finds the hook for the request and activates its workflow
func (s *Service) resolve(ctx context.Context, req *Request) (hook.Hook, *workflow.Instance, error) {
	hooks, err := s.Hooks.List(ctx, s.variant.DefinedTypeID())
	if err != nil {
		return hook.Hook{}, nil, fmt.Errorf("listing hooks: %w", err)
	}

	h, ok := FindHook(s.variant, hooks, req)
	if !ok {
		return hook.Hook{}, nil, fmt.Errorf("%w: %s %s", ErrNoHookMatched, req.Method, req.Path)
	}

	inst, err := s.Engine.Activate(ctx, h.WorkflowTypeID, req.RemoteName)
	if err != nil {
		return hook.Hook{}, nil, fmt.Errorf("activating workflow %s for hook %s: %w", h.WorkflowTypeID, h.ID, err)
	}
	return h, inst, nil
}

// store archives the workflow input; failures are logged and ignored
func (s *Service) store(ctx context.Context, h hook.Hook, inst *workflow.Instance) {
	if s.archive == nil {
		return
	}
	key := archive.Key(s.variant.DefinedTypeID(), h.ID, inst.ID)
	if err := s.archive.Archive(ctx, key, []byte(inst.Attribute(workflow.AttrRequest))); err != nil {
		s.diag.Log(s.variant.Name(), fmt.Sprintf("archiving request %s: %v", key, err))
	}
}

func (s *Service) advance(ctx context.Context, state *State, next State) {
	if !state.CanTransition(next) {
		s.logger.Warn().Str("from", state.String()).Str("to", next.String()).Msg("unexpected state transition")
	}
	*state = next
	s.metrics.RecordState(ctx, s.variant.Name(), next)
}

// ErrNoHookMatched is reported when no configured hook accepts the request
var ErrNoHookMatched = errors.New("no hook matched")

type nopRecorder struct{}

func (nopRecorder) RecordState(context.Context, string, State) {}

func (nopRecorder) RecordRun(context.Context, string, string, time.Duration, error) {}
