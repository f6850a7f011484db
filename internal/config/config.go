package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Ledger LedgerConfig `mapstructure:"ledger" validate:"required"`
	Layout LayoutConfig `mapstructure:"layout" validate:"required"`
	Study  StudyConfig  `mapstructure:"study"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Ledger storage drivers
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// LedgerConfig selects and configures the durable store behind the
// performance ledger. Path is used by the file and sqlite drivers, DSN by
// postgres.
type LedgerConfig struct {
	Driver    string `mapstructure:"driver"    validate:"required,oneof=file sqlite postgres memory"`
	Path      string `mapstructure:"path"`
	DSN       string `mapstructure:"dsn"`
	Namespace string `mapstructure:"namespace" validate:"required,max=128"`
}

// LayoutConfig contains the geometry of the concept graph layout.
type LayoutConfig struct {
	Direction   string  `mapstructure:"direction"    validate:"required,oneof=TB BT LR RL"`
	NodeWidth   float64 `mapstructure:"node_width"   validate:"gt=0"`
	NodeHeight  float64 `mapstructure:"node_height"  validate:"gt=0"`
	NodeSpacing float64 `mapstructure:"node_spacing" validate:"gte=0"`
	RankSpacing float64 `mapstructure:"rank_spacing" validate:"gte=0"`
	Sweeps      int     `mapstructure:"sweeps"       validate:"gte=0,lte=64"`
}

// StudyConfig contains settings for the study session helpers.
type StudyConfig struct {
	PomodoroMinutes int `mapstructure:"pomodoro_minutes" validate:"gt=0,lte=240"`
}
