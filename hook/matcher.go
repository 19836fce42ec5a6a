package hook

import (
	"sort"
	"strings"
)

// Target is the part of an inbound request the matcher looks at
type Target struct {
	Method string
	Path   string // everything after the handler's mount point
}

// Filter is an extra, variant-specific condition a hook must satisfy
type Filter func(Hook) bool

// FindMatch returns the first hook, in the given order, whose filters all pass.
// Hooks must already be sorted by order; first match wins.
func FindMatch(hooks []Hook, target Target, extra ...Filter) (Hook, bool) {
	return First(hooks, func(h Hook) bool {
		if !Matches(h, target) {
			return false
		}
		for _, f := range extra {
			if !f(h) {
				return false
			}
		}
		return true
	})
}

// First returns the first hook accepted by accept, which is called at most once per hook
func First(hooks []Hook, accept Filter) (Hook, bool) {
	for _, h := range hooks {
		if accept(h) {
			return h, true
		}
	}
	return Hook{}, false
}

// Matches applies the method and URL filters of a single hook
func Matches(h Hook, target Target) bool {
	if h.Method != "" && !strings.EqualFold(h.Method, target.Method) {
		return false
	}
	return MatchPath(h.URL, target.Path)
}

// SortByOrder sorts hooks by order ascending, ties broken by id
func SortByOrder(hooks []Hook) {
	sort.SliceStable(hooks, func(i, j int) bool {
		if hooks[i].Order != hooks[j].Order {
			return hooks[i].Order < hooks[j].Order
		}
		return hooks[i].ID < hooks[j].ID
	})
}
