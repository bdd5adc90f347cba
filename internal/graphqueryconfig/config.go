// Package graphqueryconfig loads the service front-end's configuration via
// viper, supporting a config file plus environment overrides — adapted
// here since this service has no database and no auth layer, only an
// HTTP listener and a logging level.
package graphqueryconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string
	Port int
}

// LoggingConfig configures the query-compiler logger.
type LoggingConfig struct {
	Level string
}

// Config is the full, resolved service configuration.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
}

// LoadConfig reads configuration from configPath (if non-empty) plus the
// GRAPHQUERYCOMPILER_-prefixed environment, falling back to defaults when
// neither is present.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRAPHQUERYCOMPILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("graphqueryconfig: reading %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
		},
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
