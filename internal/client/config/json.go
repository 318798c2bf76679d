package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/herbscan/internal/flagx"
	"github.com/dmitrijs2005/herbscan/internal/timex"
)

// jsonConfig mirrors the file layout. Pointer fields tell a missing key
// apart from a zero value.
type jsonConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	DatabasePath        *string         `json:"database_path"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	CatalogPageSize     *int            `json:"catalog_page_size"`
	MaxImageBytes       *int64          `json:"max_image_bytes"`
	LogLevel            *string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config in args. Nothing
// happens when no file is named.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.CatalogPageSize != nil {
		cfg.CatalogPageSize = *jc.CatalogPageSize
	}
	if jc.MaxImageBytes != nil {
		cfg.MaxImageBytes = *jc.MaxImageBytes
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
