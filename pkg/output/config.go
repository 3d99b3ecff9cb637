package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by LoadConfig,
// e.g. VIVARIUM_VALUE_COLUMN and VIVARIUM_INDEX_COLUMNS.
const envPrefix = "VIVARIUM_"

// findConfigFile finds the config file to use.
// Priority: explicit path > vivarium.yaml > vivarium.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"vivarium.yaml", "vivarium.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig builds a Config from layered sources.
// Precedence (highest to lowest): env vars > config file > defaults.
// An empty path searches the working directory for vivarium.yaml or
// vivarium.yml; a missing file is not an error, an unreadable one is.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	def := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"value_column":    def.ValueColumn,
		"draw_column":     def.DrawColumn,
		"scenario_column": def.ScenarioColumn,
		"measure_column":  def.MeasureColumn,
		"index_columns":   def.IndexColumns,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if used := findConfigFile(path); used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// Transform: VIVARIUM_VALUE_COLUMN -> value_column. List values
	// (index_columns) are comma-separated.
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if key == "index_columns" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
