package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"timetwister/internal/classify"
	"timetwister/internal/model"
	"timetwister/internal/schedule"
)

// KeywordConfig optionally overrides the built-in classification keyword
// lists. Both lists must be set together or left empty; disjointness is
// validated once at load time, not per classification call.
type KeywordConfig struct {
	Heavy []string `yaml:"heavy" json:"heavy"`
	Light []string `yaml:"light" json:"light"`
}

// Config is the top-level application configuration: the user's energy
// profile plus classification and refresh settings.
type Config struct {
	// Timezone is the IANA timezone used to interpret imported event times
	// (e.g. "Asia/Seoul"). "Local" selects the ambient local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Energy maps working-day hours (8..19) to the user's self-reported
	// energy level ("low", "medium", "high"). Hours may be omitted; an
	// unmapped hour has no preference.
	Energy map[int]string `yaml:"energy" json:"energy"`

	// Keywords optionally replaces the built-in heavy/light keyword lists.
	Keywords KeywordConfig `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	// Refresh is an optional cron-style schedule string (e.g. "*/30 * * * *").
	// When set, the CLI keeps running and re-fetches/re-optimizes on schedule.
	Refresh string `yaml:"refresh,omitempty" json:"refresh,omitempty"`

	// CacheDir is where HTTP fetch cache metadata and bodies are stored.
	CacheDir string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
}

// DefaultConfig returns an in-memory default configuration: a mid-day-slump
// energy profile covering the whole working day.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Local",
		Energy: map[int]string{
			8:  "medium",
			9:  "high",
			10: "high",
			11: "medium",
			12: "low",
			13: "low",
			14: "medium",
			15: "medium",
			16: "high",
			17: "medium",
			18: "low",
			19: "low",
		},
		CacheDir: "./var/ics-cache",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Energy == nil {
		c.Energy = map[int]string{}
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/ics-cache"
	}
}

// Validate rejects profiles the optimizer cannot use: hours outside the
// working day, unknown energy levels, and keyword overrides the classifier
// would refuse (one list empty, or a keyword present in both lists).
func (c *Config) Validate() error {
	for hour, level := range c.Energy {
		if hour < schedule.WorkDayStart || hour >= schedule.WorkDayEnd {
			return fmt.Errorf("energy hour %d outside working day [%d,%d)",
				hour, schedule.WorkDayStart, schedule.WorkDayEnd)
		}
		if _, err := model.ParseEnergyLevel(level); err != nil {
			return fmt.Errorf("energy hour %d: %w", hour, err)
		}
	}

	// Keyword overrides are all-or-nothing; constructing the classifier is
	// the validation, so invariants live in one place.
	if len(c.Keywords.Heavy) > 0 || len(c.Keywords.Light) > 0 {
		if _, err := classify.New(c.Keywords.Heavy, c.Keywords.Light); err != nil {
			return fmt.Errorf("invalid keyword config: %w", err)
		}
	}
	return nil
}

// EnergyMap converts the raw profile into the typed hour->level mapping the
// optimizer consumes. Validate must have passed first.
func (c *Config) EnergyMap() model.HourlyEnergy {
	out := make(model.HourlyEnergy, len(c.Energy))
	for hour, level := range c.Energy {
		out[hour] = model.EnergyLevel(level)
	}
	return out
}

// Hours returns the configured hours in ascending order, for logging.
func (c *Config) Hours() []int {
	hours := make([]int, 0, len(c.Energy))
	for h := range c.Energy {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".timetwister-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
