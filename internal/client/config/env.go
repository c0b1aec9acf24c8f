package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by parseEnv.
const (
	EnvDBPath      = "LIBRARYDESK_DB"
	EnvAuthLatency = "LIBRARYDESK_AUTH_LATENCY"
	EnvRoutesFile  = "LIBRARYDESK_ROUTES"
	EnvLogLevel    = "LIBRARYDESK_LOG_LEVEL"
	EnvLogFormat   = "LIBRARYDESK_LOG_FORMAT"
	EnvNoColor     = "NO_COLOR"
)

var lookupEnv = os.LookupEnv

// parseEnv overlays cfg with values from envFile (if it exists) and then
// from lookup, which takes precedence. Neither source is written back into
// the process environment.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := get(EnvDBPath); ok {
		cfg.DBPath = v
	}
	if v, ok := get(EnvAuthLatency); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAuthLatency, err)
		}
		cfg.AuthLatency = d
	}
	if v, ok := get(EnvRoutesFile); ok {
		cfg.RoutesFile = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.LogFormat = v
	}
	if v, ok := get(EnvNoColor); ok {
		// NO_COLOR convention: any non-empty value disables colour.
		b, err := strconv.ParseBool(v)
		cfg.NoColor = v != "" && (err != nil || b)
	}
	return nil
}
