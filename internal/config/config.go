// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start. One struct, loaded in
// one place, passed down — no package reads os.Getenv on its own.
type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string
	TemplateDir string
	StaticDir   string
	BcryptCost  int // 0 selects the auth package default

	// Location is the timezone in which "today" is computed for the
	// dashboard. Meal dates are stored as the user submitted them; only the
	// default date depends on this.
	Location *time.Location
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, if present; real environment variables win.
// JWT_SECRET is the only required value — everything else has a default.
func Load() (*Config, error) {
	// godotenv.Load does not override variables that are already set, which
	// is exactly the precedence we want (.env is a dev convenience).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		Port:        8080,
		DBPath:      "data/frediet.db",
		TemplateDir: "web/templates",
		StaticDir:   "web/static",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required (try: openssl rand -hex 32)")
	}

	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid BCRYPT_COST %q: %w", costStr, err)
		}
		cfg.BcryptCost = cost
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Europe/Rome"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	return cfg, nil
}
