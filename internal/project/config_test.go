package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[scan]
langs = ["java"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Scan.Langs) != 1 || cfg.Scan.Langs[0] != "java" {
		t.Errorf("expected langs [java], got %v", cfg.Scan.Langs)
	}
	if !cfg.Checks.AssertOrder.Enabled {
		t.Error("expected assert-order to stay enabled by default")
	}
	if cfg.Output.Format != "pretty" {
		t.Errorf("expected default format pretty, got %s", cfg.Output.Format)
	}
	if cfg.Output.MaxDiagnostics != 100 {
		t.Errorf("expected default max-diagnostics 100, got %d", cfg.Output.MaxDiagnostics)
	}
	if cfg.Cache.Disk {
		t.Error("expected disk cache off by default")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[scan]
langs = ["go"]
ignore = ["generated/", "*.pb.go"]

[checks.assert-order]
enabled = false
functions = ["^verify"]
qualifiers = ["Check"]
exclude-arg-types = ["(?i)error$"]
exclude-annotations = ["Generated"]

[checks.assert-order.signatures]
checkOutput = ["expected", "actual"]

[output]
format = "json"
max-diagnostics = 7
color = "off"

[cache]
disk = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Checks.AssertOrder.Enabled {
		t.Error("expected assert-order disabled")
	}
	if len(cfg.Scan.Ignore) != 2 {
		t.Errorf("expected 2 ignore rules, got %v", cfg.Scan.Ignore)
	}
	if got := cfg.Checks.AssertOrder.Functions; len(got) != 1 || got[0] != "^verify" {
		t.Errorf("unexpected functions: %v", got)
	}
	sig, ok := cfg.Checks.AssertOrder.Signatures["checkOutput"]
	if !ok || len(sig) != 2 || sig[0] != "expected" {
		t.Errorf("unexpected signatures: %v", cfg.Checks.AssertOrder.Signatures)
	}
	if cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 7 || cfg.Output.Color != "off" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if !cfg.Cache.Disk {
		t.Error("expected disk cache enabled")
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[scan]
lang = ["java"]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("expected unknown key error, got: %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected error to name the file, got: %v", err)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
format = "xml"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for bad format")
	}
	if !strings.Contains(err.Error(), "[output].format") {
		t.Errorf("expected error to name the key, got: %v", err)
	}
}

func TestLoadRejectsBadPattern(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[checks.assert-order]
functions = ["("]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for bad pattern")
	}
	if !strings.Contains(err.Error(), `pattern "("`) {
		t.Errorf("expected error to name the pattern, got: %v", err)
	}
	if !strings.Contains(err.Error(), "[checks.assert-order].functions") {
		t.Errorf("expected error to name the key, got: %v", err)
	}
	if !errors.Is(err, ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got: %v", err)
	}
}

func TestLoadRejectsEmptySignature(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[checks.assert-order.signatures]
checkOutput = []
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for empty signature")
	}
	if !strings.Contains(err.Error(), "checkOutput") {
		t.Errorf("expected error to name the callee, got: %v", err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[output]
format = "short"
`)
	nested := filepath.Join(root, "src", "test", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if path == "" {
		t.Fatal("expected config path to be found")
	}
	if cfg.Output.Format != "short" {
		t.Errorf("expected format short from discovered config, got %s", cfg.Output.Format)
	}
}

func TestDiscoverWithoutConfigReturnsDefaults(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path, got %s", path)
	}
	if !cfg.Checks.AssertOrder.Enabled {
		t.Error("expected default config with assert-order enabled")
	}
}

func TestFingerprintTracksConfigChanges(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("expected identical configs to share a fingerprint")
	}

	b.Checks.AssertOrder.Enabled = false
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("expected fingerprint to change when config changes")
	}
}

func TestDefaultConfigTOMLIsLoadable(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultConfigTOML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("the generated template must load cleanly: %v", err)
	}
	if !cfg.Checks.AssertOrder.Enabled {
		t.Error("expected template to enable assert-order")
	}
	if cfg.Output.Format != "pretty" {
		t.Errorf("expected template format pretty, got %s", cfg.Output.Format)
	}
	if len(cfg.Scan.Langs) != 2 {
		t.Errorf("expected template to scan both languages, got %v", cfg.Scan.Langs)
	}
}
