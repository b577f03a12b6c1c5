package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings holds application settings that are not part of a scenario.
type Settings struct {
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Sensitivity SensitivityConfig `yaml:"sensitivity" mapstructure:"sensitivity"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SensitivityConfig configures the sweep.
type SensitivityConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures the saved-project database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	HeavyRate      float64  `yaml:"heavy_rate" mapstructure:"heavy_rate"` // requests/second, 0 is unlimited
	HeavyBurst     int      `yaml:"heavy_burst" mapstructure:"heavy_burst"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// LoadSettings reads settings from an optional pvfin.yaml, an optional
// .env file and PVFIN_* environment variables. An explicit path must exist.
func LoadSettings(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pvfin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pvfin")
	}

	v.SetEnvPrefix("PVFIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("sensitivity.workers", 4)
	v.SetDefault("store.path", "pvfin.db")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.heavy_rate", 0)
	v.SetDefault("server.heavy_burst", 4)
	v.SetDefault("output.currency_symbol", "£")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &s, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
