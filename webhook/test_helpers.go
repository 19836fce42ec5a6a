package webhook

import (
	"github.com/marcelsud/webhook-workflow/workflow"
	"github.com/stretchr/testify/mock"
)

// MatchInstance creates a custom matcher for workflow instance arguments in mocks
func MatchInstance(matcher func(*workflow.Instance) bool) interface{} {
	return mock.MatchedBy(matcher)
}
