package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern represents a compiled filter condition supporting substring and regex matching.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) >= 2 {
			expr := raw[1 : len(raw)-1]
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// String returns the pattern as the user wrote it.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Selector keeps names matching any Only pattern (all names when Only is
// empty) and drops names matching any Skip pattern.
type Selector struct {
	Only []Pattern
	Skip []Pattern
}

// NewSelector compiles only and skip into a Selector.
func NewSelector(only, skip []string) (Selector, error) {
	onlyPatterns, err := Compile(only)
	if err != nil {
		return Selector{}, err
	}
	skipPatterns, err := Compile(skip)
	if err != nil {
		return Selector{}, err
	}
	return Selector{Only: onlyPatterns, Skip: skipPatterns}, nil
}

// Empty reports whether the selector keeps every name.
func (s Selector) Empty() bool {
	return len(s.Only) == 0 && len(s.Skip) == 0
}

// Keep reports whether name passes the selector.
func (s Selector) Keep(name string) bool {
	if len(s.Only) > 0 && !matchesAny(name, s.Only) {
		return false
	}
	if len(s.Skip) > 0 && matchesAny(name, s.Skip) {
		return false
	}
	return true
}

func matchesAny(name string, patterns []Pattern) bool {
	for _, pattern := range patterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}
