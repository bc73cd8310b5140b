package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drapequote/internal/errs"
)

func TestLoad_WritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", FileName)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	require.FileExists(t, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "窗簾專家", onDisk["company_name"])
	assert.Equal(t, 0.05, onDisk["tax_rate"])
}

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := `{"company_name": "好窗簾", "company_phone": "03-555-0000", "tax_rate": 0}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "好窗簾", cfg.CompanyName)
	assert.Equal(t, "03-555-0000", cfg.CompanyPhone)
	assert.Equal(t, 0.0, cfg.TaxRate)
	assert.Equal(t, Defaults().CompanyAddress, cfg.CompanyAddress, "missing keys take defaults")
}

func TestLoad_RejectsOutOfRangeTaxRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"tax_rate": 5}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestLoad_RejectsWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"company_name": 12}`), 0o644))

	_, err := Load(path)
	assert.True(t, errs.IsValidation(err))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"company_name": `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnv_Defaults(t *testing.T) {
	env, err := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "data", env.DataDir)
	assert.Equal(t, "info", env.LogLevel)
	assert.Equal(t, filepath.Join("data", FileName), env.ResolveConfigPath())
}

func TestLoadEnv_Variables(t *testing.T) {
	t.Setenv("DRAPEQUOTE_DATA_DIR", "/srv/quotes")
	t.Setenv("DRAPEQUOTE_CONFIG", "/etc/drapequote.json")
	t.Setenv("DRAPEQUOTE_LOG_LEVEL", "debug")

	env, err := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/quotes", env.DataDir)
	assert.Equal(t, "/etc/drapequote.json", env.ResolveConfigPath())

	lvl, err := env.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadEnv_DotenvFile(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("DRAPEQUOTE_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DRAPEQUOTE_LOG_LEVEL") })

	env, err := LoadEnv(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "warn", env.LogLevel)
}

func TestEnvLevel_Invalid(t *testing.T) {
	_, err := Env{LogLevel: "loud"}.Level()
	assert.Error(t, err)
}
