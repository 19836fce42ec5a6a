package workflow

import (
	"context"
	"fmt"
	"sync"
)

// Func is an in-process workflow implementation
type Func func(ctx context.Context, inst *Instance) (Outcome, error)

// Local is an Engine that runs registered functions in-process
type Local struct {
	mu       sync.RWMutex
	types    map[string]Func
	fallback Func
}

// NewLocal creates an empty in-process engine
func NewLocal() *Local {
	return &Local{types: make(map[string]Func)}
}

// NewEcho creates an engine that accepts any workflow type and replies
// with the Request attribute as JSON. Useful for wiring checks.
func NewEcho() *Local {
	l := NewLocal()
	l.fallback = Echo
	return l
}

// Echo returns the Request attribute as the response
func Echo(_ context.Context, inst *Instance) (Outcome, error) {
	return Outcome{Attributes: map[string]string{
		AttrResponse:    inst.Attribute(AttrRequest),
		AttrContentType: "application/json",
	}}, nil
}

// Register adds a workflow type
func (l *Local) Register(typeID string, fn Func) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types[typeID] = fn
}

func (l *Local) lookup(typeID string) (Func, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if fn, ok := l.types[typeID]; ok {
		return fn, true
	}
	return l.fallback, l.fallback != nil
}

// Activate returns an instance for a registered type
func (l *Local) Activate(_ context.Context, typeID, contextHint string) (*Instance, error) {
	if _, ok := l.lookup(typeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, typeID)
	}
	return NewInstance(typeID, contextHint), nil
}

// Run executes the registered function
func (l *Local) Run(ctx context.Context, inst *Instance) (Outcome, error) {
	fn, ok := l.lookup(inst.TypeID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrTypeNotFound, inst.TypeID)
	}
	return fn(ctx, inst)
}

var _ Engine = (*Local)(nil)
