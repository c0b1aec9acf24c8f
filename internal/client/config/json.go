package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/librarydesk/internal/flagx"
	"github.com/dmitrijs2005/librarydesk/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape of the JSON config file. Pointer fields
// distinguish "absent" from the zero value, so a file only overrides what it
// mentions.
type JsonConfig struct {
	DBPath      *string         `json:"db_path"`
	AuthLatency *timex.Duration `json:"auth_latency"`
	RoutesFile  *string         `json:"routes_file"`
	LogLevel    *string         `json:"log_level"`
	LogFormat   *string         `json:"log_format"`
	NoColor     *bool           `json:"no_color"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing. Comments and trailing commas are
// allowed in the file.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.AuthLatency != nil {
		cfg.AuthLatency = jc.AuthLatency.Duration
	}
	if jc.RoutesFile != nil {
		cfg.RoutesFile = *jc.RoutesFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.NoColor != nil {
		cfg.NoColor = *jc.NoColor
	}
	return nil
}
