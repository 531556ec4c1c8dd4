// Package config loads aptdedup's layered configuration: built-in
// defaults, then an optional TOML config file, then APTDEDUP_*
// environment variables. The resulting Config value is passed into
// each component at construction; there is no process-wide mutable
// configuration state.
package config

import (
	_ "embed"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/paths"
)

//go:embed defaults.toml
var defaultsTOML []byte

// EnvPrefix is the prefix for configuration environment variables.
const EnvPrefix = "APTDEDUP_"

// Config holds every tunable the components consume.
type Config struct {
	// Source reconciliation
	SourceFiles []string
	SourceGlobs []string
	Marker      string

	// Backups
	BackupRoot string

	// Lock arbitration
	LockPaths    []string
	LockTimeout  time.Duration
	PollInterval time.Duration
	KillGrace    time.Duration

	// Retry policy for package operations
	RetryAttempts int
	BaseBackoff   time.Duration
}

// DefaultTOML returns the embedded default configuration file, which
// doubles as the genconfig output.
func DefaultTOML() string {
	return string(defaultsTOML)
}

// Default returns the built-in configuration with no file or
// environment overrides applied.
func Default() Config {
	cfg, _ := load("", false)
	return cfg
}

// Load builds the effective configuration. An empty path triggers
// config file discovery (see paths.ConfigFileCandidates); a missing
// discovered file is fine, an explicit path that fails to load is not.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = paths.FindConfigFile()
	}
	return load(path, explicit)
}

func load(path string, explicit bool) (Config, error) {
	k := koanf.New(".")

	// Layer 1: hard defaults.
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// Layer 2: config file, when one exists.
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			if explicit {
				return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse discovered config %s", path)
		}
	}

	// Layer 3: environment overrides.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	cfg := Config{
		SourceFiles:   expandPaths(k.Strings("sources.files")),
		SourceGlobs:   expandPaths(k.Strings("sources.globs")),
		Marker:        k.String("sources.marker"),
		BackupRoot:    paths.ExpandPath(k.String("backup.root")),
		LockPaths:     expandPaths(k.Strings("lock.paths")),
		LockTimeout:   k.Duration("lock.timeout"),
		PollInterval:  k.Duration("lock.poll_interval"),
		KillGrace:     k.Duration("lock.kill_grace"),
		RetryAttempts: k.Int("retry.max_attempts"),
		BaseBackoff:   k.Duration("retry.base_backoff"),
	}

	if cfg.BackupRoot == "" {
		cfg.BackupRoot = paths.BackupsDir()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// validate rejects values the components cannot run on. The lock poll
// loop in particular divides the timeout by the interval.
func (c Config) validate() error {
	durations := map[string]time.Duration{
		"lock.timeout":       c.LockTimeout,
		"lock.poll_interval": c.PollInterval,
		"lock.kill_grace":    c.KillGrace,
		"retry.base_backoff": c.BaseBackoff,
	}
	for key, d := range durations {
		if d <= 0 {
			return errors.Newf(errors.ErrInvalidInput, "%s must be positive, got %s", key, d)
		}
	}
	if c.RetryAttempts < 1 {
		return errors.Newf(errors.ErrInvalidInput, "retry.max_attempts must be at least 1, got %d", c.RetryAttempts)
	}
	return nil
}

// expandPaths expands ~ and environment variables in each path.
func expandPaths(in []string) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = paths.ExpandPath(p)
	}
	return out
}

// envKey maps APTDEDUP_LOCK_TIMEOUT to lock.timeout: the first
// underscore separates section from key, the rest stays verbatim.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(s, "_", 2)
	return strings.Join(parts, ".")
}

// defaults mirrors defaults.toml; the embedded file is the
// user-visible reference, this map is what the loader trusts.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"sources.files":      []string{"/etc/apt/sources.list"},
		"sources.globs":      []string{"/etc/apt/sources.list.d/*.list"},
		"sources.marker":     "# aptdedup-dup",
		"backup.root":        "",
		"lock.paths":         []string{"/var/lib/dpkg/lock-frontend", "/var/lib/dpkg/lock"},
		"lock.timeout":       "120s",
		"lock.poll_interval": "3s",
		"lock.kill_grace":    "2s",
		"retry.max_attempts": 3,
		"retry.base_backoff": "1s",
	}
}
