package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the process environment variables.
const EnvPrefix = "drapequote"

// Env holds process settings read from DRAPEQUOTE_* variables.
type Env struct {
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	ConfigPath string `envconfig:"CONFIG"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadEnv reads the process settings. Variables in dotenv files are applied
// first without overriding ones already set; a missing file is skipped. With
// no files given, ".env" in the working directory is tried.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, fmt.Errorf("loading %s: %w", f, err)
		}
		slog.Debug("loaded dotenv file", "path", f)
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return env, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (e Env) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", e.LogLevel, err)
	}
	return lvl, nil
}

// ResolveConfigPath returns ConfigPath, or config.json inside DataDir.
func (e Env) ResolveConfigPath() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return filepath.Join(e.DataDir, FileName)
}
