package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "STUDYGRAPH"

// ConfigFileEnv names the environment variable holding an explicit config file path.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// STUDYGRAPH_LEDGER_PATH -> ledger.path
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Layout.Direction = strings.ToUpper(strings.TrimSpace(cfg.Layout.Direction))
	cfg.Ledger.Driver = strings.ToLower(strings.TrimSpace(cfg.Ledger.Driver))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and driver specific requirements.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateLedger, LedgerConfig{})
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("ledger.driver", DriverFile)
	v.SetDefault("ledger.path", "heatmap.json")
	v.SetDefault("ledger.dsn", "")
	v.SetDefault("ledger.namespace", "heatmap")

	v.SetDefault("layout.direction", "TB")
	v.SetDefault("layout.node_width", 180)
	v.SetDefault("layout.node_height", 60)
	v.SetDefault("layout.node_spacing", 50)
	v.SetDefault("layout.rank_spacing", 50)
	v.SetDefault("layout.sweeps", 4)

	v.SetDefault("study.pomodoro_minutes", 25)
}

// readConfigFile reads the file named by STUDYGRAPH_CONFIG_FILE, or
// ./config.yaml when present. A missing default file is not an error.
func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func validateLedger(sl validator.StructLevel) {
	ledger := sl.Current().Interface().(LedgerConfig)
	switch ledger.Driver {
	case DriverPostgres:
		if ledger.DSN == "" {
			sl.ReportError(ledger.DSN, "DSN", "dsn", "required_for_postgres", "")
		}
	case DriverFile, DriverSQLite:
		if ledger.Path == "" {
			sl.ReportError(ledger.Path, "Path", "path", "required_for_driver", ledger.Driver)
		}
	}
}
