package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Network NetworkConfig `mapstructure:"network"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig holds catalog API settings
type APIConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	MaxResults int    `mapstructure:"max_results"`
}

// NetworkConfig holds network settings
type NetworkConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// HistoryConfig holds search history settings
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Limit   int  `mapstructure:"limit"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // used while the interactive screen owns the terminal
}

// ServerConfig holds settings for the serve command
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var cfg *Config

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "booksearch")
}

// GetDBPath returns the history database file path
func GetDBPath() string {
	return filepath.Join(GetConfigDir(), "booksearch.db")
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetLogPath returns the default log file path
func GetLogPath() string {
	return filepath.Join(GetConfigDir(), "booksearch.log")
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.endpoint", "https://www.googleapis.com/books/v1/volumes")
	v.SetDefault("api.max_results", 10)
	v.SetDefault("network.connect_timeout", 15*time.Second)
	v.SetDefault("network.read_timeout", 10*time.Second)
	v.SetDefault("network.user_agent", "booksearch/0.1 (+https://github.com/billmal071/booksearch)")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.limit", 20)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("server.addr", ":8080")
}

// Init initializes the configuration
func Init(cfgFile string) error {
	SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(GetConfigDir())
	}

	// Environment variable overrides
	viper.SetEnvPrefix("BOOKSEARCH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine, a broken one is not
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return err
		}
	}

	cfg = nil
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		cfg = Load(viper.GetViper())
	}
	return cfg
}

// Load decodes a Config from v
func Load(v *viper.Viper) *Config {
	c := &Config{}
	_ = v.Unmarshal(c)
	c.Log.File = expandPath(c.Log.File)
	if c.Log.File == "" {
		c.Log.File = GetLogPath()
	}
	return c
}

// Set sets a configuration value
func Set(key, value string) error {
	viper.Set(key, value)

	// Ensure config directory exists
	configDir := GetConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// Reset cached config
	cfg = nil

	return viper.WriteConfigAs(GetConfigPath())
}

// GetValue retrieves a configuration value
func GetValue(key string) interface{} {
	return viper.Get(key)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
