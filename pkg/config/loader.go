// Package config fills service settings from the process environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables declared with `env` tags.
// Missing variables fall back to their `envDefault` tag; a variable tagged
// `required` without a value fails the load.
//
//	type Config struct {
//	    HTTPPort int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
