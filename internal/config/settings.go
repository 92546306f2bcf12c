package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the comprex.yaml configuration. Environment variables
// override file values; command-line flags override both.
type Settings struct {
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color is auto, always or never.
	Color string `yaml:"color,omitempty"`

	// Seed feeds random sources that do not set their own seed.
	Seed int64 `yaml:"seed,omitempty"`

	// DataDir resolves relative sql and file source paths. Defaults to the
	// directory of the scenario file.
	DataDir string `yaml:"data_dir,omitempty"`

	// Output is the result format: lines or yaml.
	Output string `yaml:"output,omitempty"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadSettings reads and parses a comprex.yaml file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses comprex.yaml content from bytes.
// The path argument is used only for error messages.
func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// FindSettings searches for comprex.yaml starting from dir and walking up
// to parent directories. Returns "" and nil error if none is found.
func FindSettings(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ApplyEnv overrides settings from COMPREX_* variables read through getenv.
func (s *Settings) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvColor); v != "" {
		s.Color = strings.ToLower(v)
	}
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		s.Seed = seed
	}
	if v := getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
	return s.Validate()
}

func (s *Settings) setDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Color == "" {
		s.Color = ColorAuto
	}
	if s.Output == "" {
		s.Output = FormatLines
	}
}

// Validate checks enumerated fields.
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", s.LogLevel)
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color %q: want %s, %s or %s", s.Color, ColorAuto, ColorAlways, ColorNever)
	}
	switch s.Output {
	case FormatLines, FormatYAML:
	default:
		return fmt.Errorf("output %q: want %s or %s", s.Output, FormatLines, FormatYAML)
	}
	return nil
}
