package config

import (
	"time"
)

// Config holds runtime settings for the client.
type Config struct {
	DBPath      string
	AuthLatency time.Duration
	RoutesFile  string
	LogLevel    string
	LogFormat   string
	NoColor     bool
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "library.db"
	c.AuthLatency = 500 * time.Millisecond
	c.RoutesFile = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.NoColor = false
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and finally args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env", lookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
