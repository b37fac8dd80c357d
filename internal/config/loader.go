package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

func Marshal(cfg *Config) ([]byte, error) { return yaml.Marshal(cfg) }

// Write saves cfg as YAML, for seeding a config file from the defaults.
func Write(path string, cfg *Config) error {
	b, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
