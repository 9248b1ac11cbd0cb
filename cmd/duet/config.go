package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration. It covers the prompt
// surface (models, personas, seed); numeric knobs stay on flags. Explicit
// flags always win over file values.
type Config struct {
	ModelA        string `yaml:"model_a"`
	ModelB        string `yaml:"model_b"`
	ProviderA     string `yaml:"provider_a"`
	ProviderB     string `yaml:"provider_b"`
	PromptA       string `yaml:"prompt_a"`
	PromptB       string `yaml:"prompt_b"`
	Topic         string `yaml:"topic"`
	InitialPrompt string `yaml:"initial_prompt"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
