package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Info captures the xcresulttool build installed on the system.
type Info struct {
	Name    string
	Version string
	Format  string
}

var xcresulttoolRegex = regexp.MustCompile(`(?i)xcresulttool\s+version\s+(\d+(?:\.\d+)*)(?:,\s*format\s+version\s+(\d+(?:\.\d+)*))?`)

// legacyConstraint matches xcresulttool builds shipped with Xcode 16 and
// later, which only accept the object-graph `get`/`export` commands with
// --legacy.
var legacyConstraint = mustConstraint(">= 23000")

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseXCResultTool extracts the tool and format versions from the output of
// `xcrun xcresulttool version`.
func ParseXCResultTool(out string) (Info, error) {
	match := xcresulttoolRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return Info{}, fmt.Errorf("unable to parse xcresulttool version from %q", strings.TrimSpace(out))
	}
	return Info{Name: "xcresulttool", Version: match[1], Format: match[2]}, nil
}

// RequiresLegacy reports whether the detected tool needs --legacy to read
// the object graph.
func RequiresLegacy(info Info) (bool, error) {
	v, err := semver.NewVersion(info.Version)
	if err != nil {
		return false, fmt.Errorf("parse xcresulttool version %q: %w", info.Version, err)
	}
	return legacyConstraint.Check(v), nil
}
