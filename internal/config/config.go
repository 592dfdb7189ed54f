package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultVelocity = 12.0
	DefaultDataDir  = ".spindown"
	DefaultLabel    = "wheel"
)

// DefaultItems are the segments shown on the live wheel.
var DefaultItems = []string{"walk", "stretch", "hydrate", "breathe", "snack", "rest"}

type Config struct {
	Label    string   `yaml:"label"`
	Velocity float64  `yaml:"velocity"`
	DataDir  string   `yaml:"data_dir"`
	Items    []string `yaml:"items"`
}

func DefaultConfig() *Config {
	return &Config{
		Label:    DefaultLabel,
		Velocity: DefaultVelocity,
		DataDir:  DefaultDataDir,
		Items:    append([]string(nil), DefaultItems...),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
