package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExporterConfig describes one external export processor: a command the
// editor may pipe exported documents through.
type ExporterConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of exporters.yaml
type ConfigFile struct {
	Exporters []ExporterConfig `yaml:"exporters" json:"exporters"`
}

// LoadExporters reads a configuration file (YAML or JSON) and returns a map
// of exporter names to configs. A missing file means "no exporters
// configured" and yields an empty map.
func LoadExporters(path string) (map[string]ExporterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ExporterConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read exporters config: %w", err)
	}

	var cfg ConfigFile
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse exporters.json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse exporters.yaml: %w", err)
		}
	}

	exporterMap := make(map[string]ExporterConfig)
	for _, exporter := range cfg.Exporters {
		if exporter.Name == "" {
			continue
		}
		exporterMap[exporter.Name] = exporter
	}

	return exporterMap, nil
}
