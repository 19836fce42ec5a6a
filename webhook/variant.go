package webhook

import (
	"fmt"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/workflow"
)

/* Variant is the capability set that differs between webhook flavours
 * One variant is constructed per mount point
 */
type Variant interface {
	// Name tags diagnostic log lines
	Name() string
	// DefinedTypeID selects which hooks belong to this variant
	DefinedTypeID() string
	// IsValidForRequest applies the hook's filters to the request
	IsValidForRequest(h hook.Hook, req *Request) bool
	// PopulateAttributes sets the workflow inputs
	PopulateAttributes(inst *workflow.Instance, h hook.Hook, req *Request, payload NormalizedRequest) error
	// RenderResponse turns the workflow outputs into an HTTP response
	RenderResponse(o workflow.Outcome, h hook.Hook) Response
}

// Generic matches on method and URL and relays the workflow response verbatim
type Generic struct {
	TypeID string
}

// NewGeneric creates the generic variant for a hook type
func NewGeneric(typeID string) *Generic {
	return &Generic{TypeID: typeID}
}

func (g *Generic) Name() string { return "GenericWebhook" }

func (g *Generic) DefinedTypeID() string { return g.TypeID }

func (g *Generic) IsValidForRequest(h hook.Hook, req *Request) bool {
	return hook.Matches(h, target(req))
}

func (g *Generic) PopulateAttributes(inst *workflow.Instance, _ hook.Hook, _ *Request, payload NormalizedRequest) error {
	data, err := payload.JSON()
	if err != nil {
		return fmt.Errorf("serializing request: %w", err)
	}
	inst.SetAttribute(workflow.AttrRequest, data)
	return nil
}

func (g *Generic) RenderResponse(o workflow.Outcome, _ hook.Hook) Response {
	return RenderGeneric(o)
}

// Slack adds a text filter and Slack outgoing-webhook fields to the generic variant
type Slack struct {
	Generic
}

// NewSlack creates the Slack variant for a hook type
func NewSlack(typeID string) *Slack {
	return &Slack{Generic: Generic{TypeID: typeID}}
}

func (s *Slack) Name() string { return "SlackToWorkflow" }

func (s *Slack) IsValidForRequest(h hook.Hook, req *Request) bool {
	if !s.Generic.IsValidForRequest(h, req) {
		return false
	}
	return hook.MatchText(h.Text, req.FormValue("text"))
}

func (s *Slack) PopulateAttributes(inst *workflow.Instance, h hook.Hook, req *Request, payload NormalizedRequest) error {
	if err := s.Generic.PopulateAttributes(inst, h, req, payload); err != nil {
		return err
	}
	inst.SetAttribute(workflow.AttrTeam, req.FormValue("team_domain"))
	inst.SetAttribute(workflow.AttrChannel, req.FormValue("channel_name"))
	inst.SetAttribute(workflow.AttrUsername, req.FormValue("user_name"))
	inst.SetAttribute(workflow.AttrText, req.FormValue("text"))
	inst.SetAttribute(workflow.AttrTrigger, req.FormValue("trigger_word"))
	return nil
}

func (s *Slack) RenderResponse(o workflow.Outcome, h hook.Hook) Response {
	return RenderSlack(o, h)
}

// FindHook returns the first hook, in order, the variant accepts for the request.
// IsValidForRequest is the only filter applied.
func FindHook(v Variant, hooks []hook.Hook, req *Request) (hook.Hook, bool) {
	return hook.First(hooks, func(h hook.Hook) bool {
		return v.IsValidForRequest(h, req)
	})
}

func target(req *Request) hook.Target {
	return hook.Target{Method: req.Method, Path: req.Path}
}

var (
	_ Variant = (*Generic)(nil)
	_ Variant = (*Slack)(nil)
)
