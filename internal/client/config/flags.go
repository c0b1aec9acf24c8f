package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about. Other arguments
// are filtered out first, so -c/-config do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-l", "-r", "-v", "-f", "-n"})

	fs := flag.NewFlagSet("librarydesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the SQLite database")
	latency := fs.Int("l", int(cfg.AuthLatency/time.Millisecond), "login/register latency (in milliseconds)")
	fs.StringVar(&cfg.RoutesFile, "r", cfg.RoutesFile, "YAML route tree file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text|json)")
	fs.BoolVar(&cfg.NoColor, "n", cfg.NoColor, "disable colour")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.AuthLatency = time.Duration(*latency) * time.Millisecond
	return nil
}
