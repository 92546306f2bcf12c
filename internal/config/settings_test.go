package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings([]byte("log_level: debug\nseed: 7\n"), "comprex.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.LogLevel != "debug" || s.Seed != 7 {
		t.Errorf("got %+v", s)
	}
	if s.Color != ColorAuto || s.Output != FormatLines {
		t.Errorf("defaults not applied: %+v", s)
	}

	for _, bad := range []string{"color: pink\n", "log_level: loud\n", "output: xml\n", "seed: [1]\n"} {
		if _, err := ParseSettings([]byte(bad), "bad.yaml"); err == nil {
			t.Errorf("ParseSettings(%q) expected error", bad)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel: "WARN",
		EnvColor:    "never",
		EnvSeed:     "42",
		EnvDataDir:  "/data",
	}
	s := DefaultSettings()
	if err := s.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	want := Settings{LogLevel: "warn", Color: ColorNever, Seed: 42, DataDir: "/data", Output: FormatLines}
	if *s != want {
		t.Errorf("got %+v, want %+v", *s, want)
	}

	env[EnvSeed] = "x"
	if err := DefaultSettings().ApplyEnv(func(k string) string { return env[k] }); err == nil {
		t.Error("expected error for bad seed")
	}
}

func TestFindSettings(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindSettings(nested)
	if err != nil {
		t.Fatal(err)
	}
	// a comprex.yaml above the temp dir would be found; only check it is not inside root
	if path != "" && filepath.Dir(path) == root {
		t.Fatalf("unexpected settings at %s", path)
	}

	want := filepath.Join(root, SettingsFileName)
	if err := os.WriteFile(want, []byte("color: always\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err = FindSettings(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != want {
		t.Errorf("FindSettings = %q, want %q", path, want)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Color != ColorAlways {
		t.Errorf("color = %q", s.Color)
	}
}
