// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/golive-cli/internal/report"
	"github.com/sells-group/golive-cli/internal/scenario"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig       `yaml:"store" mapstructure:"store"`
	Server     ServerConfig      `yaml:"server" mapstructure:"server"`
	Report     ReportConfig      `yaml:"report" mapstructure:"report"`
	Cost       report.CostParams `yaml:"cost" mapstructure:"cost"`
	Simulation SimulationConfig  `yaml:"simulation" mapstructure:"simulation"`
	Log        LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the scenario database backend.
type StoreConfig struct {
	Driver      string               `yaml:"driver" mapstructure:"driver"`
	Path        string               `yaml:"path" mapstructure:"path"`
	DatabaseURL string               `yaml:"database_url" mapstructure:"database_url"`
	Pool        *scenario.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ReportConfig configures report generation and delivery.
type ReportConfig struct {
	Language string            `yaml:"language" mapstructure:"language"`
	OutDir   string            `yaml:"out_dir" mapstructure:"out_dir"`
	FTP      report.FTPOptions `yaml:"ftp" mapstructure:"ftp"`
	Notion   NotionConfig      `yaml:"notion" mapstructure:"notion"`
}

// NotionConfig holds Notion API credentials and the status database ID.
type NotionConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	StatusDB string `yaml:"status_db" mapstructure:"status_db"`
}

// SimulationConfig holds Monte Carlo defaults.
type SimulationConfig struct {
	Draws   int   `yaml:"draws" mapstructure:"draws"`
	Seed    int64 `yaml:"seed" mapstructure:"seed"`
	Workers int   `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GOLIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "golive.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("report.language", "es")
	v.SetDefault("report.out_dir", ".")
	v.SetDefault("cost.team_size", 8)
	v.SetDefault("cost.internal_rate", 4500)
	v.SetDefault("cost.consultants", 3)
	v.SetDefault("cost.consultant_rate", 12000)
	v.SetDefault("cost.monthly_benefit", 95000)
	v.SetDefault("simulation.draws", 2000)
	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
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

// Validate checks the fields required by the given command. Commands that
// run fully offline pass "" and skip credential checks.
func (c *Config) Validate(command string) error {
	var missing []string

	switch command {
	case "serve":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return eris.Errorf("config: invalid server.port %d", c.Server.Port)
		}
	case "report":
		if c.Report.Notion.Token != "" && c.Report.Notion.StatusDB == "" {
			missing = append(missing, "report.notion.status_db is required with a token")
		}
	}

	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url is required for the postgres driver")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}
