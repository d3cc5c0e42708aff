package project

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dlclark/regexp2"
)

// ConfigFileName is the manifest swaplint looks for when scanning.
const ConfigFileName = "swaplint.toml"

// ErrBadPattern marks validation failures caused by an uncompilable
// pattern, as opposed to structural config problems.
var ErrBadPattern = errors.New("invalid pattern")

// Config is the parsed swaplint.toml.
type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Checks ChecksConfig `toml:"checks"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// ScanConfig selects what gets analyzed.
type ScanConfig struct {
	// Langs lists the languages to scan, e.g. "java", "go".
	Langs []string `toml:"langs"`
	// Ignore holds gitignore-style rules applied to paths relative to the
	// scan root. Standard build and VCS directories are skipped regardless.
	Ignore []string `toml:"ignore"`
}

// ChecksConfig holds the per-checker sections.
type ChecksConfig struct {
	AssertOrder AssertOrderConfig `toml:"assert-order"`
}

// AssertOrderConfig mirrors the checker's tuning knobs.
type AssertOrderConfig struct {
	Enabled            bool                `toml:"enabled"`
	Functions          []string            `toml:"functions"`
	Qualifiers         []string            `toml:"qualifiers"`
	ExcludeArgTypes    []string            `toml:"exclude-arg-types"`
	ExcludeAnnotations []string            `toml:"exclude-annotations"`
	Signatures         map[string][]string `toml:"signatures"`
}

// OutputConfig sets defaults for report rendering.
type OutputConfig struct {
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
	Color          string `toml:"color"`
}

// CacheConfig controls the analysis caches.
type CacheConfig struct {
	Disk bool `toml:"disk"`
}

// Default returns the configuration used when no swaplint.toml exists.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Langs: []string{"java", "go"},
		},
		Checks: ChecksConfig{
			AssertOrder: AssertOrderConfig{Enabled: true},
		},
		Output: OutputConfig{
			Format:         "pretty",
			MaxDiagnostics: 100,
			Color:          "auto",
		},
	}
}

// Load reads and validates a swaplint.toml. Keys absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover walks up from startDir and loads the nearest swaplint.toml.
// When none exists it returns the defaults and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func (c *Config) validate(path string) error {
	switch c.Output.Format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("%s: [output].format %q: must be pretty, short, json, or sarif", path, c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%s: [output].color %q: must be auto, on, or off", path, c.Output.Color)
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: [output].max-diagnostics must not be negative", path)
	}

	for _, p := range c.Checks.AssertOrder.Functions {
		if _, err := regexp2.Compile(p, regexp2.None); err != nil {
			return fmt.Errorf("%s: [checks.assert-order].functions pattern %q: %w: %v", path, p, ErrBadPattern, err)
		}
	}
	for _, p := range c.Checks.AssertOrder.ExcludeArgTypes {
		if _, err := regexp2.Compile(p, regexp2.None); err != nil {
			return fmt.Errorf("%s: [checks.assert-order].exclude-arg-types pattern %q: %w: %v", path, p, ErrBadPattern, err)
		}
	}
	for callee, names := range c.Checks.AssertOrder.Signatures {
		if callee == "" {
			return fmt.Errorf("%s: [checks.assert-order].signatures: empty callee name", path)
		}
		if len(names) == 0 {
			return fmt.Errorf("%s: [checks.assert-order].signatures.%s: empty formal list", path, callee)
		}
	}
	return nil
}

// Fingerprint hashes the effective configuration. Cache keys mix it in so
// a config change invalidates cached results.
func (c Config) Fingerprint() Digest {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return Digest{}
	}
	return sha256.Sum256(buf.Bytes())
}

// DefaultConfigTOML is the commented template written by `swaplint init`.
const DefaultConfigTOML = `# swaplint configuration

[scan]
# Languages to scan. Supported: java, go.
langs = ["java", "go"]
# gitignore-style exclusion rules, relative to the scan root.
# Standard build and VCS directories (.git, vendor, node_modules, build,
# target, dist, __pycache__) are always skipped.
ignore = []

[checks.assert-order]
enabled = true
# Callee name patterns that mark a call as assertion-like.
#functions = ["^assert", "^(Equal|NotEqual|Same|NotSame|EqualValues)$"]
# Qualifier allowlist for qualified calls. Unqualified calls always pass.
#qualifiers = ["Assert", "org.junit.Assert", "assert", "require"]
# Skip calls when an argument's type or name matches one of these.
#exclude-arg-types = ["(?i)(exception|throwable)$"]
# Skip calls inside methods annotated with one of these.
#exclude-annotations = ["BeforeTemplate"]
# Override formal parameter names per callee:
#[checks.assert-order.signatures]
#checkOutput = ["expected", "actual"]

[output]
# pretty | short | json | sarif
format = "pretty"
max-diagnostics = 100
# auto | on | off
color = "auto"

[cache]
# Persist per-file results under the user cache directory.
disk = false
`
