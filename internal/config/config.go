package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type GlideConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	DryRun  bool   `yaml:"dry_run"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Magic struct {
		RedirectURL string `yaml:"redirect_url"`
	} `yaml:"magic"`
	Glide GlideConfig `yaml:"glide"`
	Auth  struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func LoadConfigFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// ENV-переопределения (деплой без правки файла)
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("MAGIC_REDIRECT_URI"); v != "" {
		cfg.Magic.RedirectURL = v
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Magic.RedirectURL == "" {
		cfg.Magic.RedirectURL = fmt.Sprintf("http://localhost:%d/", cfg.Server.Port)
	}
	if cfg.Glide.BaseURL == "" {
		cfg.Glide.BaseURL = "https://api.gateway-x.io"
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 15
	}
	return &cfg, nil
}
