package hook

import (
	"fmt"
	"strconv"
	"strings"
)

/* Hook is an admin-defined rule mapping an inbound request pattern to a workflow
 * Hooks are created outside of this service and are read-only to the request flow
 */
type Hook struct {
	ID               string
	TypeID           string // variant this hook belongs to (generic, slack, ...)
	Name             string
	Order            int
	Method           string // empty matches any method
	URL              string // literal path or ^...$ regex
	Text             string // slack only: substring or ^...$ regex on the text field
	WorkflowTypeID   string
	Options          Options
	ResponseUsername string
	ResponseIcon     string
	Attributes       map[string]string
}

// Options controls payload enrichment
type Options struct {
	IncludeHeaders bool
	IncludeCookies bool
}

// Well-known attribute names exposed through Attribute
const (
	AttrMethod       = "Method"
	AttrURL          = "Url"
	AttrText         = "Text"
	AttrWorkflowType = "WorkflowType"
	AttrHeaders      = "Headers"
	AttrCookies      = "Cookies"
	AttrUsername     = "Username"
	AttrIcon         = "Icon"
)

// Attribute returns a named attribute of the hook, falling back to the free-form map
func (h Hook) Attribute(name string) string {
	switch name {
	case AttrMethod:
		return h.Method
	case AttrURL:
		return h.URL
	case AttrText:
		return h.Text
	case AttrWorkflowType:
		return h.WorkflowTypeID
	case AttrHeaders:
		return strconv.FormatBool(h.Options.IncludeHeaders)
	case AttrCookies:
		return strconv.FormatBool(h.Options.IncludeCookies)
	case AttrUsername:
		return h.ResponseUsername
	case AttrIcon:
		return h.ResponseIcon
	}
	return h.Attributes[name]
}

// Validate checks if the hook configuration is valid
func (h *Hook) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("hook id cannot be empty")
	}
	if h.TypeID == "" {
		return fmt.Errorf("type_id cannot be empty for hook %s", h.ID)
	}
	if h.WorkflowTypeID == "" {
		return fmt.Errorf("workflow_type cannot be empty for hook %s", h.ID)
	}
	if h.Method != "" && !isToken(h.Method) {
		return fmt.Errorf("invalid method %q for hook %s", h.Method, h.ID)
	}
	if err := ValidatePattern(h.URL); err != nil {
		return fmt.Errorf("invalid url pattern for hook %s: %w", h.ID, err)
	}
	if err := ValidatePattern(h.Text); err != nil {
		return fmt.Errorf("invalid text pattern for hook %s: %w", h.ID, err)
	}
	return nil
}

// isToken reports whether s is a valid HTTP method token
func isToken(s string) bool {
	for _, r := range s {
		if r > 127 || r <= ' ' || strings.ContainsRune(`()<>@,;:\"/[]?={}`, r) {
			return false
		}
	}
	return s != ""
}
