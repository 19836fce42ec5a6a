package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

/* The workflow engine is an external collaborator
 * This package only describes how the webhook flow talks to it
 */

// Attribute names exchanged with workflows
const (
	AttrRequest     = "Request"
	AttrTeam        = "Team"
	AttrChannel     = "Channel"
	AttrUsername    = "Username"
	AttrText        = "Text"
	AttrTrigger     = "Trigger"
	AttrResponse    = "Response"
	AttrContentType = "ContentType"
)

// ErrTypeNotFound is returned by Activate for unknown workflow types
var ErrTypeNotFound = errors.New("workflow type not found")

// Instance is a handle to an activated workflow
type Instance struct {
	ID          string            `json:"id"`
	TypeID      string            `json:"type_id"`
	ContextHint string            `json:"context_hint,omitempty"`
	Attributes  map[string]string `json:"attributes"`
}

// NewInstance creates a handle for a workflow type
func NewInstance(typeID, contextHint string) *Instance {
	return &Instance{
		ID:          uuid.New().String(),
		TypeID:      typeID,
		ContextHint: contextHint,
		Attributes:  make(map[string]string),
	}
}

// SetAttribute sets an input attribute on the instance
func (i *Instance) SetAttribute(name, value string) {
	if i.Attributes == nil {
		i.Attributes = make(map[string]string)
	}
	i.Attributes[name] = value
}

// Attribute returns an attribute of the instance
func (i *Instance) Attribute(name string) string {
	return i.Attributes[name]
}

// Outcome holds the named output values of a workflow run
type Outcome struct {
	Attributes map[string]string `json:"attributes"`
}

// Attribute returns a named output value, empty when absent
func (o Outcome) Attribute(name string) string {
	return o.Attributes[name]
}

// Response is the text the workflow wants sent back
func (o Outcome) Response() string {
	return o.Attribute(AttrResponse)
}

// ContentType is the content type the workflow wants used
func (o Outcome) ContentType() string {
	return o.Attribute(AttrContentType)
}

// RunError carries the error list reported by a workflow run
type RunError struct {
	Errors []string
}

func (e *RunError) Error() string {
	return "workflow run failed: " + strings.Join(e.Errors, "; ")
}

// Engine activates and runs workflows
type Engine interface {
	/* Activate resolves a workflow type into a runnable instance
	 * contextHint identifies the caller (client host name)
	 */
	Activate(ctx context.Context, typeID, contextHint string) (*Instance, error)
	/* Run executes the instance and returns its outputs
	 * A run may report errors and still produce outputs
	 */
	Run(ctx context.Context, inst *Instance) (Outcome, error)
}
