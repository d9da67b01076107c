package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rindeal/repokeeper/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// WorkflowsConfig describes the source tree / destination directory layout
type WorkflowsConfig struct {
	SourceDir string `koanf:"source_dir"`
	DestDir   string `koanf:"dest_dir"`
	LinkName  string `koanf:"link_name"`
	Separator string `koanf:"separator"`
	Extension string `koanf:"extension"`
}

// PatchConfig controls the embedded name patcher
type PatchConfig struct {
	// InsertMissing prepends a name line when the workflow file has none
	InsertMissing bool `koanf:"insert_missing"`
}

// DryRun holds one toggle per operation family. A set toggle means the
// operation is logged but not executed.
type DryRun struct {
	Rename bool `koanf:"rename"`
	Relink bool `koanf:"relink"`
	Edit   bool `koanf:"edit"`
	Sweep  bool `koanf:"sweep"`
}

// SetAll flips every toggle at once, for the global --dry-run flag
func (d *DryRun) SetAll(v bool) {
	d.Rename = v
	d.Relink = v
	d.Edit = v
	d.Sweep = v
}

// ForksConfig controls the fork naming policy
type ForksConfig struct {
	Topic          string `koanf:"topic"`
	DescriptionTag string `koanf:"description_tag"`
}

// Config is the root configuration structure
type Config struct {
	Workflows WorkflowsConfig `koanf:"workflows"`
	Patch     PatchConfig     `koanf:"patch"`
	DryRun    DryRun          `koanf:"dryrun"`
	Forks     ForksConfig     `koanf:"forks"`
}

// Load builds the effective configuration by layering the embedded
// defaults, an optional repokeeper.toml at rootDir, and REPOKEEPER_*
// environment variables.
func Load(rootDir string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	for _, filename := range []string{".repokeeper.toml", "repokeeper.toml"} {
		path := filepath.Join(rootDir, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
			break
		}
	}

	// REPOKEEPER_DRYRUN_SWEEP=true -> dryrun.sweep
	if err := k.Load(env.Provider("REPOKEEPER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "REPOKEEPER_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	return &cfg, nil
}

// Default returns the built-in configuration without any file or
// environment overrides.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		// The embedded defaults are compiled in; failing to parse them is
		// a build defect, not a runtime condition.
		panic(err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
