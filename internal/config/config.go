package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Wispro struct {
		BaseURL string `yaml:"base_url"`
		// Nunca en el yaml del repo: llega por WISPRO_API_TOKEN.
		Token string `yaml:"token"`
	} `yaml:"wispro"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	if token := os.Getenv("WISPRO_API_TOKEN"); token != "" {
		cfg.Wispro.Token = token
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":4001"
	}
	if cfg.Wispro.BaseURL == "" {
		cfg.Wispro.BaseURL = "https://www.cloud.wispro.co"
	}
	return cfg
}
