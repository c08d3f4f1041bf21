package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the streamspill configuration
type Config struct {
	SpillDirs      []string `yaml:"spill_dirs"`
	SpillThreshold int      `yaml:"spill_threshold_bytes"`
	MaxRecordSize  int      `yaml:"max_record_size_bytes"`
	Relay          Relay    `yaml:"relay"`
}

// Relay contains relay-specific configuration
type Relay struct {
	Listen        string `yaml:"listen"`
	MetricsListen string `yaml:"metrics_listen"`
	BufferSize    int    `yaml:"buffer_size_bytes"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SpillDirs:      []string{os.TempDir()},
		SpillThreshold: 5 * 1024 * 1024,
		MaxRecordSize:  256 * 1024 * 1024,
		Relay: Relay{
			Listen:        "127.0.0.1:7420",
			MetricsListen: "127.0.0.1:7421",
			BufferSize:    32 * 1024,
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./streamspill.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "streamspill")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
