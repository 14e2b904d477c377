package main

import (
	"log"

	"smallworld/internal/config"
)

// loadConfig honors --config, falling back to the standard search order.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, path, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Config loaded from %s", path)
		return cfg, nil
	}

	cfg, path, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("Config loaded from %s", path)
	}
	return cfg, nil
}
