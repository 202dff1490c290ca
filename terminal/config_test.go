package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenHeadless(t *testing.T) {
	t.Setenv(EnvDriver, "")

	d, err := Open(Config{Driver: "headless", HeadlessCols: 40, HeadlessRows: 12})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	h, ok := d.(*HeadlessDriver)
	if !ok {
		t.Fatalf("Expected headless driver, got %T", d)
	}
	if w, hgt := h.Size(); w != 40 || hgt != 12 {
		t.Errorf("Expected 40x12, got %dx%d", w, hgt)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv(EnvDriver, "")

	if _, err := Open(Config{Driver: "vt52"}); err == nil {
		t.Error("Expected error for unknown driver name")
	}
}

func TestOpenEnvOverride(t *testing.T) {
	t.Setenv(EnvDriver, "headless")

	d, err := Open(Config{Driver: "ansi"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := d.(*HeadlessDriver); !ok {
		t.Errorf("Expected env override to select headless, got %T", d)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if cfg.Driver != "" {
		t.Errorf("Expected default config, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termview.toml")
	content := `driver = "headless"
headless_cols = 100
headless_rows = 30
headless_lifetime = "250ms"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Driver != "headless" || cfg.HeadlessCols != 100 || cfg.HeadlessRows != 30 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.HeadlessLifetime.Milliseconds() != 250 {
		t.Errorf("Expected 250ms lifetime, got %v", cfg.HeadlessLifetime)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("driver = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestDetectColorSupport(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")
	t.Setenv("TERM", "xterm")
	if got := detectColorSupport(); got != ColorSupportRGB {
		t.Errorf("Expected RGB, got %d", got)
	}

	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	if got := detectColorSupport(); got != ColorSupport256 {
		t.Errorf("Expected 256, got %d", got)
	}

	t.Setenv("TERM", "vt100")
	if got := detectColorSupport(); got != ColorSupport16 {
		t.Errorf("Expected 16, got %d", got)
	}

	t.Setenv("TERM", "dumb")
	if got := detectColorSupport(); got != ColorSupportNone {
		t.Errorf("Expected none, got %d", got)
	}
}
