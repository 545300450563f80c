package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	frontendAuto = "auto"
	frontendTUI  = "tui"
	frontendLine = "line"
)

// Config holds the settings of the command line driver
type Config struct {
	LogLevel    string `yaml:"log_level"`
	Color       bool   `yaml:"color"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Frontend    string `yaml:"frontend"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Color:    true,
		Prompt:   "> ",
		Frontend: frontendAuto,
	}
}

// loadConfig overlays the YAML file at path on cfg. Unknown keys are errors.
func loadConfig(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Frontend {
	case frontendAuto, frontendTUI, frontendLine:
	default:
		return fmt.Errorf("config: unknown frontend %q", c.Frontend)
	}
	return nil
}

func (c Config) historyPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lox_history")
}
