package gridcalc

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration of a sheet, usually gridcalc.toml.
type Config struct {
	Rows          int    `toml:"rows"`
	Columns       int    `toml:"columns"`
	LenientParens bool   `toml:"lenient_parens"`
	LogLevel      string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given:
// a 50x26 grid (A1:Z50).
func DefaultConfig() Config {
	return Config{
		Rows:     50,
		Columns:  26,
		LogLevel: "info",
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a usable grid.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return fmt.Errorf("rows and columns must be greater than zero (got %dx%d)", c.Rows, c.Columns)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Options converts the configuration into Spreadsheet options.
func (c Config) Options() []Option {
	return []Option{WithLenientParens(c.LenientParens)}
}

// NewFromConfig creates a Spreadsheet sized by cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Spreadsheet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.Rows, cfg.Columns, append(cfg.Options(), opts...)...)
}

// parseColor parses an ARGB color of 1 to 8 hex digits, optionally prefixed
// with "#". Exactly 6 digits are read as "RRGGBB" and made opaque.
func parseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 0 || len(s) > 8 {
		return 0, fmt.Errorf("invalid color %q: want 1 to 8 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}

// formatColor renders an ARGB color as 8 uppercase hex digits.
func formatColor(c uint32) string {
	return fmt.Sprintf("%08X", c)
}
