// Package config loads runtime configuration for the librarydesk client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a .env file in the working directory, then the process
//     environment (LIBRARYDESK_* variables, NO_COLOR).
//  3. Optional JSON file given with -c or -config.
//  4. Command-line flags.
//
// Supported flags
//
//	-d string   path of the SQLite database (":memory:" for a throwaway one)
//	-l int      simulated login/register latency in milliseconds
//	-r string   YAML route tree file (built-in tree when empty)
//	-v string   log level: debug, info, warn, error
//	-f string   log format: text or json
//	-n          disable colour in toasts
//
// # JSON schema
//
// Durations accept strings like "500ms" or integer nanoseconds. The file
// may contain comments and trailing commas:
//
//	{
//	  "db_path": "library.db",
//	  "auth_latency": "500ms",
//	  "routes_file": "configs/routes.yaml",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "no_color": false
//	}
package config
