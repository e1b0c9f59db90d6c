// Package config reads server settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	JWTSecret       []byte
	BaseURI         string
	Addr            string
	FeedInterval    time.Duration
	MinGameDuration time.Duration
	LongPollTimeout time.Duration
	Debug           bool
}

func Defaults() Config {
	return Config{
		BaseURI:         "/api",
		Addr:            ":8080",
		FeedInterval:    3 * time.Second,
		MinGameDuration: 10 * time.Second,
	}
}

// Load reads .env (if any) into the process environment, then parses it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup parses the settings through lookup and reports every invalid
// variable at once.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()
	var errs error

	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		cfg.JWTSecret = []byte(v)
	} else {
		errs = multierr.Append(errs, errors.New("JWT_SECRET is required"))
	}

	if v, ok := lookup("BASE_URI"); ok {
		cfg.BaseURI = "/" + strings.Trim(v, "/")
		if cfg.BaseURI == "/" {
			cfg.BaseURI = ""
		}
	}
	if v, ok := lookup("ADDR"); ok && v != "" {
		cfg.Addr = v
	}

	errs = multierr.Append(errs, duration(lookup, "FEED_INTERVAL", &cfg.FeedInterval))
	errs = multierr.Append(errs, duration(lookup, "MIN_GAME_DURATION", &cfg.MinGameDuration))
	errs = multierr.Append(errs, duration(lookup, "LONG_POLL_TIMEOUT", &cfg.LongPollTimeout))

	if v, ok := lookup("LOG_LEVEL"); ok {
		switch strings.ToLower(v) {
		case "", "info":
		case "debug":
			cfg.Debug = true
		default:
			errs = multierr.Append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", v))
		}
	}

	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}

func duration(lookup func(string) (string, bool), key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: must not be negative", key)
	}
	*dst = d
	return nil
}
