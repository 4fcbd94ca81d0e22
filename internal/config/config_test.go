package config

import (
	"os"
	"path/filepath"
	"testing"

	"timetwister/internal/model"
)

func TestLoad_CreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("first-run load failed: %v", err)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("expected default timezone Local, got %q", cfg.Timezone)
	}
	if len(cfg.Energy) == 0 {
		t.Error("default config must carry an energy profile")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 perms, got %o", perm)
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	orig := &Config{
		Timezone: "UTC",
		Energy:   map[int]string{9: "high", 12: "low"},
		Keywords: KeywordConfig{Heavy: []string{"meeting"}, Light: []string{"lunch"}},
		Refresh:  "*/30 * * * *",
	}
	if err := Save(path, orig); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Timezone != "UTC" || got.Refresh != "*/30 * * * *" {
		t.Errorf("scalar fields lost: %+v", got)
	}
	if got.Energy[9] != "high" || got.Energy[12] != "low" {
		t.Errorf("energy map lost: %+v", got.Energy)
	}
	if len(got.Keywords.Heavy) != 1 || got.Keywords.Heavy[0] != "meeting" {
		t.Errorf("keyword overrides lost: %+v", got.Keywords)
	}
}

func TestValidate_RejectsHourOutsideWorkingDay(t *testing.T) {
	cfg := &Config{Energy: map[int]string{7: "high"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for hour 7")
	}
	cfg = &Config{Energy: map[int]string{20: "high"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for hour 20")
	}
}

func TestValidate_RejectsOverlappingKeywordOverrides(t *testing.T) {
	cfg := &Config{
		Keywords: KeywordConfig{
			Heavy: []string{"meeting", "review"},
			Light: []string{"lunch", "Meeting"},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for keyword present in both override lists")
	}

	cfg = &Config{Keywords: KeywordConfig{Heavy: []string{"meeting"}}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for one-sided keyword override")
	}

	cfg = &Config{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty overrides must be accepted: %v", err)
	}
}

func TestValidate_RejectsUnknownLevel(t *testing.T) {
	cfg := &Config{Energy: map[int]string{9: "extreme"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown energy level")
	}
}

func TestEnergyMap_TypedConversion(t *testing.T) {
	cfg := &Config{Energy: map[int]string{9: "high", 14: "low"}}
	m := cfg.EnergyMap()
	if m[9] != model.EnergyHigh || m[14] != model.EnergyLow {
		t.Errorf("unexpected typed map: %+v", m)
	}
	if _, ok := m[10]; ok {
		t.Error("unmapped hour must stay absent")
	}
}

func TestLocation_LocalAndNamed(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	if loc, err := cfg.Location(); err != nil || loc == nil {
		t.Errorf("Local must resolve, got %v %v", loc, err)
	}
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("UTC must resolve, got %v %v", loc, err)
	}
}
