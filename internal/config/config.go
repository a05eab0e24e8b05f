package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runger/symnav/internal/outline"
)

// Config represents the symnav configuration.
type Config struct {
	Picker  PickerConfig  `yaml:"picker"`
	Filter  FilterConfig  `yaml:"filter"`
	Sources SourcesConfig `yaml:"sources"`
}

// PickerConfig holds TUI picker settings.
type PickerConfig struct {
	PreserveOrder       bool `yaml:"preserve_order"`        // Keep structural order; false ranks best-first
	KeepHierarchy       bool `yaml:"keep_hierarchy"`        // Re-include ancestors of matches
	PreviewEnabled      bool `yaml:"preview_enabled"`       // Show the source preview pane
	PreviewContextLines int  `yaml:"preview_context_lines"` // Lines of context around the symbol
	MaxVisibleRows      int  `yaml:"max_visible_rows"`      // List rows before scrolling
	DebounceMs          int  `yaml:"debounce_ms"`           // Delay before refetching on input
}

// FilterConfig holds filtering settings.
type FilterConfig struct {
	// Blocklist holds glob patterns; symbols whose name matches are
	// dropped (with their subtree) at build time.
	Blocklist []string `yaml:"blocklist"`

	// KindCodes overrides or extends the query filter codes, mapping a
	// short code (e.g. "f") to kind names (e.g. [Function, Method]).
	KindCodes map[string][]string `yaml:"kind_codes"`
}

// SourcesConfig holds symbol source settings.
type SourcesConfig struct {
	TagsCommand  string `yaml:"tags_command"`  // ctags command line for the tags source
	CacheBuffers int    `yaml:"cache_buffers"` // Max buffers kept in the session cache
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			PreserveOrder:       true,
			KeepHierarchy:       true,
			PreviewEnabled:      true,
			PreviewContextLines: 5,
			MaxVisibleRows:      20,
			DebounceMs:          40,
		},
		Filter: FilterConfig{
			Blocklist: nil,
			KindCodes: nil, // Use the built-in code table
		},
		Sources: SourcesConfig{
			TagsCommand:  "ctags --output-format=json --sort=no --fields=+nZS -f -",
			CacheBuffers: 64,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration. Out-of-range numeric values are
// fixed by clamping or falling back to defaults; validation never
// prevents startup for those, only for unusable settings.
func (c *Config) Validate() error {
	c.ValidateAndFix()

	if strings.TrimSpace(c.Sources.TagsCommand) == "" {
		return errors.New("sources.tags_command must not be empty")
	}

	for code, kinds := range c.Filter.KindCodes {
		if code == "" || strings.ContainsAny(code, " \t") {
			return fmt.Errorf("filter.kind_codes: invalid code %q", code)
		}
		if len(kinds) == 0 {
			return fmt.Errorf("filter.kind_codes.%s: must name at least one kind", code)
		}
	}

	return nil
}

// ValidationWarning represents a config validation warning.
type ValidationWarning struct {
	Field   string
	Message string
}

// ValidateAndFix clamps numeric picker and source settings into their
// valid ranges. Returns a list of warnings for diagnostics.
func (c *Config) ValidateAndFix() []ValidationWarning {
	var warnings []ValidationWarning

	warn := func(field, msg string) {
		w := ValidationWarning{Field: field, Message: msg}
		warnings = append(warnings, w)
		log.Printf("WARN config: %s: %s", field, msg)
	}

	clamps := []struct {
		name     string
		val      *int
		min, max int
	}{
		{"picker.preview_context_lines", &c.Picker.PreviewContextLines, 0, 50},
		{"picker.max_visible_rows", &c.Picker.MaxVisibleRows, 5, 100},
		{"picker.debounce_ms", &c.Picker.DebounceMs, 0, 500},
		{"sources.cache_buffers", &c.Sources.CacheBuffers, 1, 1024},
	}
	for _, cl := range clamps {
		if *cl.val < cl.min {
			warn(cl.name, fmt.Sprintf("must be >= %d, got %d; clamping", cl.min, *cl.val))
			*cl.val = cl.min
		}
		if *cl.val > cl.max {
			warn(cl.name, fmt.Sprintf("must be <= %d, got %d; clamping", cl.max, *cl.val))
			*cl.val = cl.max
		}
	}

	if _, err := ParseKindCodes(c.Filter.KindCodes); err != nil {
		warn("filter.kind_codes", fmt.Sprintf("%v; falling back to built-in codes", err))
		c.Filter.KindCodes = nil
	}

	return warnings
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables override config file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SYMNAV_TAGS_COMMAND"); v != "" {
		c.Sources.TagsCommand = v
	}
	if v := os.Getenv("SYMNAV_PRESERVE_ORDER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Picker.PreserveOrder = b
		}
	}
	if v := os.Getenv("SYMNAV_PREVIEW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Picker.PreviewEnabled = b
		}
	}
}

// KindCodeTable resolves the effective filter-code table: the built-in
// codes overlaid with any configured overrides.
func (c *Config) KindCodeTable() map[string][]outline.Kind {
	table := outline.KindCodes()
	overrides, err := ParseKindCodes(c.Filter.KindCodes)
	if err != nil {
		return table
	}
	for code, kinds := range overrides {
		table[code] = kinds
	}
	return table
}

// ParseKindCodes converts configured kind names into outline kinds.
// Unknown kind names are an error so typos surface instead of silently
// filtering everything out.
func ParseKindCodes(codes map[string][]string) (map[string][]outline.Kind, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	known := make(map[string]outline.Kind)
	for _, kinds := range outline.KindCodes() {
		for _, k := range kinds {
			known[strings.ToLower(string(k))] = k
		}
	}
	for _, k := range []outline.Kind{
		outline.KindFile, outline.KindString, outline.KindNumber,
		outline.KindBoolean, outline.KindArray, outline.KindObject,
		outline.KindKey, outline.KindNull, outline.KindEvent,
		outline.KindOperator, outline.KindTypeParameter, outline.KindBuffer,
	} {
		known[strings.ToLower(string(k))] = k
	}

	out := make(map[string][]outline.Kind, len(codes))
	for code, names := range codes {
		kinds := make([]outline.Kind, 0, len(names))
		for _, name := range names {
			k, ok := known[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("unknown kind %q for code %q", name, code)
			}
			kinds = append(kinds, k)
		}
		out[code] = kinds
	}
	return out, nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "picker.preserve_order" or "sources.tags_command".
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "picker":
		return c.getPickerField(field)
	case "filter":
		return c.getFilterField(field)
	case "sources":
		return c.getSourcesField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "picker":
		return c.setPickerField(field, value)
	case "filter":
		return c.setFilterField(field, value)
	case "sources":
		return c.setSourcesField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "preserve_order":
		return strconv.FormatBool(c.Picker.PreserveOrder), nil
	case "keep_hierarchy":
		return strconv.FormatBool(c.Picker.KeepHierarchy), nil
	case "preview_enabled":
		return strconv.FormatBool(c.Picker.PreviewEnabled), nil
	case "preview_context_lines":
		return strconv.Itoa(c.Picker.PreviewContextLines), nil
	case "max_visible_rows":
		return strconv.Itoa(c.Picker.MaxVisibleRows), nil
	case "debounce_ms":
		return strconv.Itoa(c.Picker.DebounceMs), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "preserve_order":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for preserve_order: %w", err)
		}
		c.Picker.PreserveOrder = v
	case "keep_hierarchy":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for keep_hierarchy: %w", err)
		}
		c.Picker.KeepHierarchy = v
	case "preview_enabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for preview_enabled: %w", err)
		}
		c.Picker.PreviewEnabled = v
	case "preview_context_lines":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for preview_context_lines: %w", err)
		}
		if v < 0 {
			v = 0
		}
		if v > 50 {
			v = 50
		}
		c.Picker.PreviewContextLines = v
	case "max_visible_rows":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_visible_rows: %w", err)
		}
		if v < 5 {
			v = 5
		}
		if v > 100 {
			v = 100
		}
		c.Picker.MaxVisibleRows = v
	case "debounce_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for debounce_ms: %w", err)
		}
		if v < 0 {
			v = 0
		}
		if v > 500 {
			v = 500
		}
		c.Picker.DebounceMs = v
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getFilterField(field string) (string, error) {
	switch field {
	case "blocklist":
		return strings.Join(c.Filter.Blocklist, ","), nil
	default:
		return "", fmt.Errorf("unknown field: filter.%s", field)
	}
}

func (c *Config) setFilterField(field, value string) error {
	switch field {
	case "blocklist":
		if value == "" {
			c.Filter.Blocklist = nil
			return nil
		}
		parts := strings.Split(value, ",")
		patterns := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		c.Filter.Blocklist = patterns
	default:
		return fmt.Errorf("unknown field: filter.%s", field)
	}
	return nil
}

func (c *Config) getSourcesField(field string) (string, error) {
	switch field {
	case "tags_command":
		return c.Sources.TagsCommand, nil
	case "cache_buffers":
		return strconv.Itoa(c.Sources.CacheBuffers), nil
	default:
		return "", fmt.Errorf("unknown field: sources.%s", field)
	}
}

func (c *Config) setSourcesField(field, value string) error {
	switch field {
	case "tags_command":
		if strings.TrimSpace(value) == "" {
			return errors.New("tags_command must not be empty")
		}
		c.Sources.TagsCommand = value
	case "cache_buffers":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for cache_buffers: %w", err)
		}
		if v < 1 {
			v = 1
		}
		if v > 1024 {
			v = 1024
		}
		c.Sources.CacheBuffers = v
	default:
		return fmt.Errorf("unknown field: sources.%s", field)
	}
	return nil
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"picker.preserve_order",
		"picker.keep_hierarchy",
		"picker.preview_enabled",
		"picker.preview_context_lines",
		"picker.max_visible_rows",
		"picker.debounce_ms",
		"filter.blocklist",
		"sources.tags_command",
		"sources.cache_buffers",
	}
}
