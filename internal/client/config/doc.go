// Package config loads runtime configuration for the HerbScan client.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   base URL of the identification server
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l int      catalog page size
//	-v string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8001",
//	  "database_path": "herbscan.db",
//	  "request_timeout": "60s",
//	  "online_check_interval": "3s",
//	  "catalog_page_size": 50,
//	  "max_image_bytes": 10485760,
//	  "log_level": "info"
//	}
package config
