package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// EnvConfigPath names the variable that points at the config file when no
// path is given explicitly.
const EnvConfigPath = "MOMENTUM_CONFIG"

// Load builds the final config: defaults, then the YAML file at path (or
// $MOMENTUM_CONFIG), then the environment. A missing file is not an error
// unless the path was given explicitly.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = "momentum.yaml"
	}

	fileCfg, err := LoadFromFile(path)
	switch {
	case err == nil:
		logger.Debug("Loaded config file", slog.String("path", path))
		cfg.Merge(fileCfg)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("No config file found", slog.String("path", path))
	default:
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
