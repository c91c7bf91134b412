package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config captures CLI options sourced from config files or flags.
type Config struct {
	XCRun        string `yaml:"xcrun" toml:"xcrun"`
	DeveloperDir string `yaml:"developer_dir" toml:"developer_dir"`
	Legacy       string `yaml:"legacy" toml:"legacy"`

	Tests           []string `yaml:"tests" toml:"tests"`
	OnlyAttachments []string `yaml:"only_attachment" toml:"only_attachment"`
	SkipAttachments []string `yaml:"skip_attachment" toml:"skip_attachment"`

	DryRun   bool   `yaml:"dry_run" toml:"dry_run"`
	Verbose  bool   `yaml:"verbose" toml:"verbose"`
	Format   string `yaml:"format" toml:"format"`
	Manifest string `yaml:"manifest" toml:"manifest"`
}

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		XCRun:  "xcrun",
		Legacy: LegacyAlways,
		Format: FormatPretty,
	}
}

const (
	// LegacyAlways passes --legacy to every xcresulttool call.
	LegacyAlways = "always"
	// LegacyNever never passes --legacy.
	LegacyNever = "never"
	// LegacyAuto decides from the installed xcresulttool version.
	LegacyAuto = "auto"

	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"
)

// Files are the config file names looked up in the working directory, in
// order of preference.
var Files = []string{".xcshots.yml", ".xcshots.yaml", ".xcshots.toml"}

// Load reads the config file. When explicit is empty the first of Files
// present in root is used and a missing file is not an error.
func Load(root, explicit string) (Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		for _, name := range Files {
			candidate := filepath.Join(root, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fileCfg)
	} else {
		err = yaml.Unmarshal(data, &fileCfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.XCRun != "" {
		out.XCRun = override.XCRun
	}
	if override.DeveloperDir != "" {
		out.DeveloperDir = override.DeveloperDir
	}
	if override.Legacy != "" {
		out.Legacy = override.Legacy
	}
	if len(override.Tests) > 0 {
		out.Tests = append([]string{}, override.Tests...)
	}
	if len(override.OnlyAttachments) > 0 {
		out.OnlyAttachments = append([]string{}, override.OnlyAttachments...)
	}
	if len(override.SkipAttachments) > 0 {
		out.SkipAttachments = append([]string{}, override.SkipAttachments...)
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Manifest != "" {
		out.Manifest = override.Manifest
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.Verbose {
		out.Verbose = true
	}

	return out
}

// Validate reports settings that cannot be used.
func Validate(cfg Config) error {
	switch strings.ToLower(cfg.Format) {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
	switch strings.ToLower(cfg.Legacy) {
	case LegacyAlways, LegacyNever, LegacyAuto:
	default:
		return fmt.Errorf("unsupported legacy mode %q (want always|never|auto)", cfg.Legacy)
	}
	if strings.TrimSpace(cfg.XCRun) == "" {
		return errors.New("xcrun path must not be empty")
	}
	if cfg.Manifest != "" && filepath.Base(cfg.Manifest) != cfg.Manifest {
		return fmt.Errorf("manifest %q must be a file name, not a path", cfg.Manifest)
	}
	return nil
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.XCRun.Set {
		cfg.XCRun = flags.XCRun.Value
	}
	if flags.DeveloperDir.Set {
		cfg.DeveloperDir = flags.DeveloperDir.Value
	}
	if flags.Legacy.Set {
		cfg.Legacy = flags.Legacy.Value
	}
	if len(flags.Tests.Values) > 0 {
		cfg.Tests = append([]string{}, flags.Tests.Values...)
	}
	if len(flags.OnlyAttachments.Values) > 0 {
		cfg.OnlyAttachments = append([]string{}, flags.OnlyAttachments.Values...)
	}
	if len(flags.SkipAttachments.Values) > 0 {
		cfg.SkipAttachments = append([]string{}, flags.SkipAttachments.Values...)
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Manifest.Set {
		cfg.Manifest = flags.Manifest.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	XCRun           StringFlag
	DeveloperDir    StringFlag
	Legacy          StringFlag
	Tests           SliceFlag
	OnlyAttachments SliceFlag
	SkipAttachments SliceFlag
	Format          StringFlag
	Manifest        StringFlag
	DryRun          BoolFlag
	Verbose         BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
