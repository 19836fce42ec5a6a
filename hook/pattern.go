package hook

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

/* Patterns have two modes:
 * ^...$ is a case-insensitive regular expression
 * anything else is a literal compared case-insensitively
 */

// IsRegex reports whether the pattern is a ^...$ delimited regular expression
func IsRegex(pattern string) bool {
	return len(pattern) >= 2 && strings.HasPrefix(pattern, "^") && strings.HasSuffix(pattern, "$")
}

// ValidatePattern returns an error when a regex pattern does not compile
func ValidatePattern(pattern string) error {
	if !IsRegex(pattern) {
		return nil
	}
	if _, err := compile(pattern); err != nil {
		return fmt.Errorf("compiling %q: %w", pattern, err)
	}
	return nil
}

// MatchPath applies a URL pattern to the path after the mount point.
// Empty patterns match any path; literals require case-insensitive equality.
func MatchPath(pattern, path string) bool {
	if pattern == "" {
		return true
	}
	if IsRegex(pattern) {
		return matchRegex(pattern, path)
	}
	return strings.EqualFold(pattern, path)
}

// MatchText applies a text pattern to a form value.
// Blank patterns match anything; literals are case-insensitive substrings.
func MatchText(pattern, text string) bool {
	if strings.TrimSpace(pattern) == "" {
		return true
	}
	if IsRegex(pattern) {
		return matchRegex(pattern, text)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}

func matchRegex(pattern, s string) bool {
	re, err := compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// compiled patterns; invalid ones are never stored
var compiled sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := compiled.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	compiled.Store(pattern, re)
	return re, nil
}
