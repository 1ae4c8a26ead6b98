package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	CacheDir     string `toml:"cache_dir"`
	OutputDir    string `toml:"output_dir"`
	StateFile    string `toml:"state_file"`
	DefaultPort  int    `toml:"default_port"`
	FetchTimeout int    `toml:"fetch_timeout_minutes"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".odoo-ci")

	cfg := &Config{
		CacheDir:     filepath.Join(base, "cache"),
		OutputDir:    "docker-compose-files",
		StateFile:    filepath.Join(base, "instances.db"),
		DefaultPort:  8069,
		FetchTimeout: 60,
	}

	err := Save(cfg)
	if err != nil {
		fmt.Println(err) // TODO: Improve
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	base := filepath.Join(home, ".odoo-ci")

	configPath := filepath.Join(base, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".odoo-ci")

	configPath := filepath.Join(base, "config.toml")

	os.MkdirAll(filepath.Dir(configPath), 0755)
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
