package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Env        string           `yaml:"env"`         // Env is the current environment: local, development, production.
	Storage    string           `yaml:"storage"`     // Storage selects the employee store: postgres or sqlite.
	Postgres   PostgresConfig   `yaml:"postgres"`    // Postgres holds the database configuration
	SQLite     SQLiteConfig     `yaml:"sqlite"`      // SQLite holds the embedded database configuration
	HTTPServer HTTPServerConfig `yaml:"http_server"` // HTTPServer holds the REST API listener configuration
	Monitoring MonitoringConfig `yaml:"monitoring"`  // Monitoring holds the metrics/health listener configuration
	CORS       CORSConfig       `yaml:"cors"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// HTTPServerConfig struct holds the configuration of the REST API server.
type HTTPServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MonitoringConfig struct {
	Port int `yaml:"port"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH and returns a Config struct.
// Environment variables override file values, e.g. POSTGRES_HOST overrides postgres.host.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	vpr := viper.New()
	vpr.SetConfigFile(configPath)
	vpr.SetConfigType("yaml")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if err := vpr.ReadInConfig(); err != nil {
		panic("config error: " + err.Error())
	}

	setDefaults(vpr)

	cfg := &Config{
		Env:     vpr.GetString("env"),
		Storage: vpr.GetString("storage"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		SQLite: SQLiteConfig{
			Path: vpr.GetString("sqlite.path"),
		},
		HTTPServer: HTTPServerConfig{
			Address:         vpr.GetString("http_server.address"),
			ReadTimeout:     vpr.GetDuration("http_server.read_timeout"),
			WriteTimeout:    vpr.GetDuration("http_server.write_timeout"),
			IdleTimeout:     vpr.GetDuration("http_server.idle_timeout"),
			ShutdownTimeout: vpr.GetDuration("http_server.shutdown_timeout"),
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
		CORS: CORSConfig{
			AllowedOrigins: vpr.GetStringSlice("cors.allowed_origins"),
		},
	}

	if cfg.Storage != StoragePostgres && cfg.Storage != StorageSQLite {
		panic("unknown storage driver: " + cfg.Storage)
	}

	return cfg
}

func setDefaults(vpr *viper.Viper) {
	const (
		readTimeout     = 5 * time.Second
		writeTimeout    = 10 * time.Second
		idleTimeout     = 60 * time.Second
		shutdownTimeout = 10 * time.Second
		monitoringPort  = 8080
	)

	vpr.SetDefault("env", "local")
	vpr.SetDefault("storage", StoragePostgres)
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("sqlite.path", "employees.db")
	vpr.SetDefault("http_server.address", ":8081")
	vpr.SetDefault("http_server.read_timeout", readTimeout)
	vpr.SetDefault("http_server.write_timeout", writeTimeout)
	vpr.SetDefault("http_server.idle_timeout", idleTimeout)
	vpr.SetDefault("http_server.shutdown_timeout", shutdownTimeout)
	vpr.SetDefault("monitoring.port", monitoringPort)
	vpr.SetDefault("cors.allowed_origins", []string{"*"})
}
