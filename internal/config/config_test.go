package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".xcshots.yml", `xcrun: /usr/local/bin/xcrun
developer_dir: /Applications/Xcode_16.app/Contents/Developer
legacy: auto
tests:
  - /Screenshots/
only_attachment:
  - "0"
skip_attachment:
  - debug
manifest: screenshots.json
verbose: true
`)

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		XCRun:           "/usr/local/bin/xcrun",
		DeveloperDir:    "/Applications/Xcode_16.app/Contents/Developer",
		Legacy:          LegacyAuto,
		Tests:           []string{"/Screenshots/"},
		OnlyAttachments: []string{"0"},
		SkipAttachments: []string{"debug"},
		Format:          FormatPretty,
		Manifest:        "screenshots.json",
		Verbose:         true,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("config = %+v, want %+v", cfg, want)
	}
}

func TestLoadTOML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".xcshots.toml", `legacy = "never"
format = "json"
dry_run = true
skip_attachment = ["debug", "/^tmp-/"]
`)

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Legacy != LegacyNever || cfg.Format != FormatJSON || !cfg.DryRun {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.SkipAttachments, []string{"debug", "/^tmp-/"}) {
		t.Fatalf("skip patterns = %v", cfg.SkipAttachments)
	}
	if cfg.XCRun != "xcrun" {
		t.Fatalf("default xcrun lost: %q", cfg.XCRun)
	}
}

func TestLoadPrefersYAMLOverTOML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".xcshots.yml", "format: json\n")
	writeConfig(t, root, ".xcshots.toml", "format = \"pretty\"\nlegacy = \"never\"\n")

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Format != FormatJSON || cfg.Legacy != LegacyAlways {
		t.Fatalf("expected yaml file only, got %+v", cfg)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "ci.toml", "xcrun = \"/opt/xcrun\"\n")

	cfg, err := Load(root, "ci.toml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.XCRun != "/opt/xcrun" {
		t.Fatalf("xcrun = %q", cfg.XCRun)
	}

	if _, err := Load(root, "missing.yml"); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadParseError(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".xcshots.yml", "tests: [unterminated\n")
	if _, err := Load(root, ""); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyFlagsOverridesOnlySetValues(t *testing.T) {
	cfg := Default()
	cfg.Manifest = "from-file.json"
	cfg.Tests = []string{"file"}

	ApplyFlags(&cfg, FlagValues{
		Legacy:  StringFlag{Value: LegacyAuto, Set: true},
		Format:  StringFlag{Value: "", Set: false},
		Tests:   SliceFlag{Values: []string{"flag"}},
		DryRun:  BoolFlag{Value: true, Set: true},
		Verbose: BoolFlag{Value: false, Set: false},
	})

	if cfg.Legacy != LegacyAuto || cfg.Format != FormatPretty || !cfg.DryRun {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Manifest != "from-file.json" {
		t.Fatalf("unset flag should not override manifest")
	}
	if !reflect.DeepEqual(cfg.Tests, []string{"flag"}) {
		t.Fatalf("tests = %v", cfg.Tests)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cases := []func(*Config){
		func(c *Config) { c.Format = "xml" },
		func(c *Config) { c.Legacy = "sometimes" },
		func(c *Config) { c.XCRun = " " },
		func(c *Config) { c.Manifest = "../manifest.json" },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, cfg)
		}
	}
}
