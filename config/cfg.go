package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	httpapi "github.com/ddshop/reports-manager/internal/api/http"
	"github.com/ddshop/reports-manager/internal/auth"
	"github.com/ddshop/reports-manager/internal/store"
	"github.com/ddshop/reports-manager/log"
	"github.com/spf13/viper"
)

// ReportsConfig tunes the statistics engine.
type ReportsConfig struct {
	// Timezone resolves named date ranges; empty means UTC.
	Timezone string `mapstructure:"timezone"`
	// ListLimit caps grouped statistics rows.
	ListLimit int `mapstructure:"list_limit"`
}

func (rc ReportsConfig) Location() (*time.Location, error) {
	if rc.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(rc.Timezone)
}

// Config represents the global configuration for the service.
type Config struct {
	DB      store.Config   `mapstructure:"mysql"`
	Logger  log.Config     `mapstructure:"logger"`
	HTTP    httpapi.Config `mapstructure:"http"`
	Auth    auth.Config    `mapstructure:"auth"`
	Reports ReportsConfig  `mapstructure:"reports"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/reports-manager")
		viper.AddConfigPath("/etc/reports-manager")
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// Construct the DSN from individual env vars when it is not set directly.
	if config.DB.DSN == "" {
		host := os.Getenv("MYSQL_HOST")
		if host != "" {
			port := os.Getenv("MYSQL_PORT")
			if port == "" {
				port = "3306"
			}
			user := os.Getenv("MYSQL_USER")
			password := os.Getenv("MYSQL_PASSWORD")
			database := os.Getenv("MYSQL_DATABASE")
			if user != "" && password != "" && database != "" {
				config.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8&parseTime=true",
					user, password, host, port, database)
			}
		}
	}

	return &config, nil
}

// bindEnvVars binds environment variables to config keys so flat names like
// MYSQL_DSN work alongside nested MYSQL__DSN.
func bindEnvVars() {
	// MySQL
	viper.BindEnv("mysql.dsn", "MYSQL_DSN")
	viper.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	viper.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	viper.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")
	viper.BindEnv("mysql.base_currency", "MYSQL_BASE_CURRENCY")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Auth
	viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	viper.BindEnv("auth.master_password", "AUTH_MASTER_PASSWORD")
	viper.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Reports
	viper.BindEnv("reports.timezone", "REPORTS_TIMEZONE")
	viper.BindEnv("reports.list_limit", "REPORTS_LIST_LIMIT")
}
