package hook_test

import (
	"testing"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatch(t *testing.T) {
	hooks := []hook.Hook{
		{ID: "post-only", Order: 1, Method: "POST", URL: "/orders"},
		{ID: "regex", Order: 2, URL: "^/items/[0-9]+$"},
		{ID: "literal", Order: 3, URL: "FooBar"},
		{ID: "catch-all", Order: 4},
	}

	t.Run("success - first match wins", func(t *testing.T) {
		h, ok := hook.FindMatch(hooks, hook.Target{Method: "post", Path: "/orders"})
		require.True(t, ok)
		assert.Equal(t, "post-only", h.ID)
	})

	t.Run("success - method mismatch falls through", func(t *testing.T) {
		h, ok := hook.FindMatch(hooks, hook.Target{Method: "GET", Path: "/orders"})
		require.True(t, ok)
		assert.Equal(t, "catch-all", h.ID)
	})

	t.Run("success - regex is case-insensitive", func(t *testing.T) {
		h, ok := hook.FindMatch(hooks, hook.Target{Method: "GET", Path: "/ITEMS/42"})
		require.True(t, ok)
		assert.Equal(t, "regex", h.ID)
	})

	t.Run("success - literal requires whole-path equality", func(t *testing.T) {
		h, ok := hook.FindMatch(hooks[:3], hook.Target{Method: "GET", Path: "foobar"})
		require.True(t, ok)
		assert.Equal(t, "literal", h.ID)

		_, ok = hook.FindMatch(hooks[:3], hook.Target{Method: "GET", Path: "/foobar/x"})
		assert.False(t, ok)
	})

	t.Run("success - extra filter applies", func(t *testing.T) {
		reject := func(h hook.Hook) bool { return h.ID != "catch-all" }
		_, ok := hook.FindMatch(hooks, hook.Target{Method: "GET", Path: "/anything"}, reject)
		assert.False(t, ok)
	})

	t.Run("no hooks - no match", func(t *testing.T) {
		_, ok := hook.FindMatch(nil, hook.Target{Method: "GET", Path: "/status"})
		assert.False(t, ok)
	})

	t.Run("invalid regex never matches", func(t *testing.T) {
		broken := []hook.Hook{{ID: "broken", URL: "^/(unclosed$"}}
		_, ok := hook.FindMatch(broken, hook.Target{Method: "GET", Path: "/(unclosed"})
		assert.False(t, ok)

		_, ok = hook.FindMatch(broken, hook.Target{Method: "GET", Path: "/(unclosed"})
		assert.False(t, ok)
	})
}

func TestFirst(t *testing.T) {
	hooks := []hook.Hook{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("success - stops at the first accepted hook", func(t *testing.T) {
		var seen []string
		h, ok := hook.First(hooks, func(h hook.Hook) bool {
			seen = append(seen, h.ID)
			return h.ID == "b"
		})

		assert.True(t, ok)
		assert.Equal(t, "b", h.ID)
		assert.Equal(t, []string{"a", "b"}, seen)
	})

	t.Run("none accepted - no match", func(t *testing.T) {
		_, ok := hook.First(hooks, func(hook.Hook) bool { return false })
		assert.False(t, ok)
	})
}

func TestMatchText(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"blank pattern", "  ", "anything", true},
		{"substring any case", "Deploy", "please DEPLOY now", true},
		{"substring missing", "deploy", "rollback", false},
		{"regex match", "^deploy [a-z]+$", "Deploy prod", true},
		{"regex anchored", "^deploy$", "deploy prod", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hook.MatchText(tt.pattern, tt.text))
		})
	}
}

func TestSortByOrder(t *testing.T) {
	hooks := []hook.Hook{{ID: "c", Order: 2}, {ID: "b", Order: 1}, {ID: "a", Order: 2}}
	hook.SortByOrder(hooks)
	assert.Equal(t, []string{"b", "a", "c"}, []string{hooks[0].ID, hooks[1].ID, hooks[2].ID})
}

func TestHook_Validate(t *testing.T) {
	t.Run("success - valid hook", func(t *testing.T) {
		h := hook.Hook{ID: "a", TypeID: "generic", WorkflowTypeID: "wf", Method: "PATCH", URL: "^/x$"}
		assert.NoError(t, h.Validate())
	})

	t.Run("error - missing workflow type", func(t *testing.T) {
		h := hook.Hook{ID: "a", TypeID: "generic"}
		assert.ErrorContains(t, h.Validate(), "workflow_type cannot be empty")
	})

	t.Run("error - bad method", func(t *testing.T) {
		h := hook.Hook{ID: "a", TypeID: "generic", WorkflowTypeID: "wf", Method: "GET POST"}
		assert.ErrorContains(t, h.Validate(), "invalid method")
	})

	t.Run("error - bad text regex", func(t *testing.T) {
		h := hook.Hook{ID: "a", TypeID: "slack", WorkflowTypeID: "wf", Text: "^[$"}
		assert.ErrorContains(t, h.Validate(), "invalid text pattern")
	})
}

func TestHook_Attribute(t *testing.T) {
	h := hook.Hook{
		Method:  "GET",
		Options: hook.Options{IncludeHeaders: true},
		Attributes: map[string]string{
			"Custom": "value",
		},
	}
	assert.Equal(t, "GET", h.Attribute(hook.AttrMethod))
	assert.Equal(t, "true", h.Attribute(hook.AttrHeaders))
	assert.Equal(t, "false", h.Attribute(hook.AttrCookies))
	assert.Equal(t, "value", h.Attribute("Custom"))
	assert.Equal(t, "", h.Attribute("Missing"))
}
