package webhook

import "fmt"

/* Kind selects which Variant serves a mount point
 * Generic relays responses as-is, Slack speaks the outgoing-webhook JSON dialect
 */
type Kind int

const (
	GenericKind Kind = iota + 1
	SlackKind
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case GenericKind:
		return "generic"
	case SlackKind:
		return "slack"
	default:
		return "unknown"
	}
}

// NewKind creates a Kind from a string
func NewKind(s string) Kind {
	switch s {
	case "generic":
		return GenericKind
	case "slack":
		return SlackKind
	default:
		return 0
	}
}

// Validate checks if the kind is valid
func (k Kind) Validate() error {
	if k < GenericKind || k > SlackKind {
		return fmt.Errorf("invalid webhook kind: %d", k)
	}
	return nil
}

// NewVariant builds the variant of this kind for a hook type
func (k Kind) NewVariant(typeID string) (Variant, error) {
	switch k {
	case GenericKind:
		return NewGeneric(typeID), nil
	case SlackKind:
		return NewSlack(typeID), nil
	default:
		return nil, fmt.Errorf("invalid webhook kind: %d", k)
	}
}
