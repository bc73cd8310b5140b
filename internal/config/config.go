// Package config loads the business settings shown on quotes (company
// details, tax rate, price table location) and the process settings that
// locate the data directory.
//
// Business settings live in config.json. On first run the file is written
// with defaults so that the user has something to edit. Every load is
// validated against an embedded CUE schema before it is decoded.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/roach88/drapequote/internal/errs"
)

// FileName is the business settings document inside the data directory.
const FileName = "config.json"

//go:embed schema.cue
var schemaCUE string

// Config holds the business display settings.
type Config struct {
	CompanyName    string  `mapstructure:"company_name" json:"company_name"`
	CompanyPhone   string  `mapstructure:"company_phone" json:"company_phone"`
	CompanyAddress string  `mapstructure:"company_address" json:"company_address"`
	PriceTablePath string  `mapstructure:"price_table_path" json:"price_table_path"`
	TaxRate        float64 `mapstructure:"tax_rate" json:"tax_rate"`
}

// Defaults returns the settings written on first run.
func Defaults() Config {
	return Config{
		CompanyName:    "窗簾專家",
		CompanyPhone:   "02-1234-5678",
		CompanyAddress: "台北市中正區xx路xx號",
		PriceTablePath: "data/price_table.xlsx",
		TaxRate:        0.05,
	}
}

// Load reads the settings at path, writing the defaults there first if the
// file does not exist. Keys missing from the file take their default value.
func Load(path string) (Config, error) {
	def := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("company_name", def.CompanyName)
	v.SetDefault("company_phone", def.CompanyPhone)
	v.SetDefault("company_address", def.CompanyAddress)
	v.SetDefault("price_table_path", def.PriceTablePath)
	v.SetDefault("tax_rate", def.TaxRate)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Config{}, fmt.Errorf("create config directory: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
		slog.Info("wrote default config", "path", path)
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := validate(v.AllSettings()); err != nil {
		return Config{}, &errs.Error{Code: errs.CodeValidation, Message: fmt.Sprintf("invalid config %s", path), Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// validate checks settings against the #Config definition in schema.cue.
func validate(settings map[string]any) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	value := ctx.CompileBytes(data, cue.Filename(FileName))
	if err := value.Err(); err != nil {
		return err
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	return unified.Validate(cue.Concrete(true))
}
