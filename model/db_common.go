package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultConfigFile is read from the working directory unless CLINVOICE_CONFIG
// points somewhere else.
const DefaultConfigFile = "config.toml"

const defaultExportTimeout = 60 * time.Second

// Config is the persisted configuration of the tool. It is loaded once at
// start and handed to every component that needs it.
type Config struct {
	SetupDone      bool   `toml:"setup_done"`
	DatabaseURL    string `toml:"database_url"`
	DefaultCompany uint   `toml:"default_company"`
	LogoPath       string `toml:"logo_path"`
	InvoicePath    string `toml:"invoice_path"`
	Mode           string `toml:"mode"`
	DBLogger       string `toml:"db_logger"`
	TemplatePath   string `toml:"template_path"`
	ChromePath     string `toml:"chrome_path"`
	ExportTimeout  string `toml:"export_timeout"`
	MailAPIKey     string `toml:"mail_api_key"`
	MailSecret     string `toml:"mail_secret"`
	MailFrom       string `toml:"mail_from"`
}

// ConfigPath returns the location of the configuration file.
func ConfigPath() string {
	if p := os.Getenv("CLINVOICE_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigFile
}

// LoadConfig reads the configuration file. A missing file yields an empty
// configuration with SetupDone == false.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read config %s: %w", ErrIO, path, err)
	}
	if err = toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config %s: %w", ErrValidation, path, err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration file.
func SaveConfig(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = ensureDir(dir); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: write config %s: %w", ErrIO, path, err)
	}
	return nil
}

// Complete reports whether setup ran and left everything the invoice
// commands need.
func (cfg *Config) Complete() bool {
	return cfg.SetupDone && cfg.DatabaseURL != "" && cfg.InvoicePath != "" && cfg.DefaultCompany != 0
}

// Timeout is the upper bound for a single PDF export.
func (cfg *Config) Timeout() time.Duration {
	if cfg.ExportTimeout == "" {
		return defaultExportTimeout
	}
	d, err := time.ParseDuration(cfg.ExportTimeout)
	if err != nil || d <= 0 {
		return defaultExportTimeout
	}
	return d
}

// shared helper for GORM logger
func gormLoggerFor(cfg *Config) *gorm.Config {
	gormConfig := &gorm.Config{}
	switch cfg.DBLogger {
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	default:
		if cfg.Mode == "development" {
			gormConfig.Logger = logger.Default.LogMode(logger.Info)
		} else {
			gormConfig.Logger = logger.Default.LogMode(logger.Silent)
		}
	}
	return gormConfig
}
