// Package xcresulttest provides an on-disk stand-in for `xcrun xcresulttool`
// and helpers for building fixture bundles.
package xcresulttest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const fakeScript = `#!/bin/sh
dir=$(dirname "$0")
printf '%s\n' "$*" >> "$dir/calls.log"
if [ "$1" != "xcresulttool" ]; then
	echo "xcrun: error: unable to find utility \"$1\"" >&2
	exit 72
fi
shift
sub=$1
shift
legacy=0
id=""
out=""
path=""
while [ $# -gt 0 ]; do
	case "$1" in
	--legacy) legacy=1; shift ;;
	--path) path=$2; shift 2 ;;
	--id) id=$2; shift 2 ;;
	--output-path) out=$2; shift 2 ;;
	--format|--type) shift 2 ;;
	*) echo "Error: Unknown option '$1'" >&2; exit 64 ;;
	esac
done
if [ "$sub" != "version" ] && [ "@REQUIRE_LEGACY@" = "1" ] && [ "$legacy" = "0" ]; then
	echo "Error: This command is deprecated and will be removed in a future release, --legacy flag is required to use it." >&2
	exit 1
fi
case "$sub" in
version)
	echo "xcresulttool version @VERSION@, format version 3.53 (current)"
	;;
get)
	file="$path/${id:-root}.json"
	if [ ! -f "$file" ]; then
		echo "Error: no object found for id '${id:-root}'" >&2
		exit 1
	fi
	cat "$file"
	;;
export)
	file="$path/$id.payload"
	if [ ! -f "$file" ]; then
		echo "Error: unable to export payload '$id'" >&2
		exit 1
	fi
	cp "$file" "$out"
	;;
*)
	echo "Error: Unknown subcommand '$sub'" >&2
	exit 64
	;;
esac
`

// FakeOptions tune the behaviour of the generated script.
type FakeOptions struct {
	// Version is reported by `xcresulttool version`. Defaults to 23021.
	Version string
	// RequireLegacy makes get/export fail unless --legacy is passed, as
	// Xcode 16 does.
	RequireLegacy bool
}

// Fake is an executable stand-in for xcrun.
type Fake struct {
	Path string
	dir  string
}

// NewFake writes the fake xcrun into a temp dir. Tests using it are skipped
// on Windows.
func NewFake(t testing.TB, opts FakeOptions) *Fake {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake xcrun requires a POSIX shell")
	}
	if opts.Version == "" {
		opts.Version = "23021"
	}
	requireLegacy := "0"
	if opts.RequireLegacy {
		requireLegacy = "1"
	}

	script := strings.NewReplacer("@VERSION@", opts.Version, "@REQUIRE_LEGACY@", requireLegacy).Replace(fakeScript)

	dir := t.TempDir()
	path := filepath.Join(dir, "xcrun")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake xcrun: %v", err)
	}
	return &Fake{Path: path, dir: dir}
}

// Calls returns the argument lists the fake has been invoked with, one
// space-joined line per call.
func (f *Fake) Calls(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, "calls.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read calls log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
