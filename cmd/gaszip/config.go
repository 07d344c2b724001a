package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// flagBindings maps config keys to scan command flags.
var flagBindings = map[string]string{
	"rpc_url":         "rpc",
	"contract":        "contract",
	"from_block":      "from",
	"to_block":        "to",
	"window_size":     "window",
	"workers":         "workers",
	"retry_count":     "retries",
	"request_timeout": "timeout",
	"log_level":       "log-level",
	"output":          "out",
	"metrics_addr":    "metrics-addr",
	"registry_file":   "registry",
}

// loadConfig merges, in increasing precedence, the config file, GASZIP_*
// environment variables and explicitly set flags.
func loadConfig(cmd *cobra.Command, path string) (*types.ScanConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("GASZIP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range flagBindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &types.ClientError{Code: types.ErrCodeConfigError, Message: "failed to read " + path, Err: err}
		}
	}

	cfg := types.ScanConfig{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &types.ClientError{Code: types.ErrCodeConfigError, Message: "failed to decode config", Err: err}
	}
	cfg = cfg.WithDefaults()

	if err := utils.ValidateScanConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
