package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeServer = "server"
	ModeStdio  = "stdio"

	// Default values
	DefaultPort     = 8080
	DefaultHost     = "127.0.0.1"
	DefaultLogLevel = "info"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the claims service
type Config struct {
	// Serving configuration
	Mode string // "server" for the HTTP API, "stdio" for the assist surface
	Host string
	Port int

	// Storage configuration; an empty DatabaseURL selects the in-memory store
	DatabaseURL string

	// Directory where the assist surface writes generated claim documents
	DocumentDirectory string

	// External collaborators
	AuthSecret  string // shared secret for identity provider tokens
	CheckoutURL string // hosted checkout provider base URL

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeServer,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		Version:           "1.0.0",
		ServerName:        "claimdesk",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CLAIMDESK")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("databaseurl", cfg.DatabaseURL)
	viper.SetDefault("docdir", cfg.DocumentDirectory)
	viper.SetDefault("authsecret", cfg.AuthSecret)
	viper.SetDefault("checkouturl", cfg.CheckoutURL)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Serving mode: 'server' for the HTTP claims API, 'stdio' for the assist surface")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("databaseurl", cfg.DatabaseURL, "Postgres connection URL (empty selects the in-memory store)")
	pflag.String("docdir", cfg.DocumentDirectory, "Directory where generated claim documents are written")
	pflag.String("authsecret", cfg.AuthSecret, "Shared secret for identity provider tokens")
	pflag.String("checkouturl", cfg.CheckoutURL, "Hosted checkout provider base URL")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("databaseurl", pflag.Lookup("databaseurl"))
	_ = viper.BindPFlag("docdir", pflag.Lookup("docdir"))
	_ = viper.BindPFlag("authsecret", pflag.Lookup("authsecret"))
	_ = viper.BindPFlag("checkouturl", pflag.Lookup("checkouturl"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nclaimdesk - no-fault claim intake and case management service\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          # HTTP API on the default port\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --port=9000 --databaseurl=postgres://... # HTTP API backed by Postgres\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --docdir=/srv/claims        # assist surface over stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_MODE         Serving mode\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_DATABASEURL  Postgres connection URL\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_DOCDIR       Document output directory\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_AUTHSECRET   Identity token secret\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_CHECKOUTURL  Checkout provider URL\n")
		fmt.Fprintf(os.Stderr, "  CLAIMDESK_LOGLEVEL     Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DatabaseURL = viper.GetString("databaseurl")
	cfg.DocumentDirectory = viper.GetString("docdir")
	cfg.AuthSecret = viper.GetString("authsecret")
	cfg.CheckoutURL = viper.GetString("checkouturl")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeServer && c.Mode != ModeStdio {
		return errors.New("mode must be either 'server' or 'stdio'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate document directory
	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Check if document directory exists, create if it doesn't
	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, LogLevel: %s}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.LogLevel)
}

// IsServerMode returns true if running the HTTP claims API
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if running the assist surface over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}
