package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Storage modes for the upload trigger
	StorageS3     = "s3"
	StorageLocal  = "local"
	StorageMemory = "memory"

	// Default values
	DefaultInputPath         = "rent_agreement.pdf"
	DefaultOutputPath        = "tenant_data.csv"
	DefaultPort              = 8080
	DefaultHost              = "127.0.0.1"
	DefaultLogLevel          = "info"
	DefaultMaxFileSize       = 100 * 1024 * 1024 // 100MB
	DefaultStorageMode       = StorageS3
	DefaultStorageRoot       = "./buckets"
	DefaultDestinationBucket = "tenant-data-output"
	DefaultDestinationKey    = "tenant_data.csv"
	DefaultS3Region          = "us-east-1"

	envPrefix = "LEASE"
)

// Config holds all configuration for the lease extractor commands
type Config struct {
	// Local mode
	InputPath  string
	OutputPath string

	// Upload trigger
	Host              string
	Port              int
	StorageMode       string // s3, local or memory
	StorageRoot       string // bucket directories for local storage
	DestinationBucket string
	DestinationKey    string

	// S3 connection, used when StorageMode is s3
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		InputPath:         DefaultInputPath,
		OutputPath:        DefaultOutputPath,
		Host:              DefaultHost,
		Port:              DefaultPort,
		StorageMode:       DefaultStorageMode,
		StorageRoot:       DefaultStorageRoot,
		DestinationBucket: DefaultDestinationBucket,
		DestinationKey:    DefaultDestinationKey,
		S3Region:          DefaultS3Region,
		Version:           "1.0.0",
		ServerName:        "lease-form-extractor",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("storage", cfg.StorageMode)
	viper.SetDefault("storageroot", cfg.StorageRoot)
	viper.SetDefault("bucket", cfg.DestinationBucket)
	viper.SetDefault("key", cfg.DestinationKey)
	viper.SetDefault("s3endpoint", cfg.S3Endpoint)
	viper.SetDefault("s3region", cfg.S3Region)
	viper.SetDefault("s3accesskey", cfg.S3AccessKeyID)
	viper.SetDefault("s3secretkey", cfg.S3SecretAccessKey)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("input", cfg.InputPath, "Fillable lease PDF to read (local mode)")
	pflag.String("output", cfg.OutputPath, "CSV file to append to (local mode)")
	pflag.String("host", cfg.Host, "Listen address for the upload trigger")
	pflag.Int("port", cfg.Port, "Listen port for the upload trigger")
	pflag.String("storage", cfg.StorageMode, "Object storage: 's3', 'local' or 'memory'")
	pflag.String("storageroot", cfg.StorageRoot, "Directory holding bucket directories (local storage)")
	pflag.String("bucket", cfg.DestinationBucket, "Destination bucket for the output CSV")
	pflag.String("key", cfg.DestinationKey, "Destination key for the output CSV")
	pflag.String("s3endpoint", cfg.S3Endpoint, "Custom S3 endpoint (MinIO and other S3-compatible services)")
	pflag.String("s3region", cfg.S3Region, "S3 region")
	pflag.String("s3accesskey", cfg.S3AccessKeyID, "S3 access key ID (default credential chain when empty)")
	pflag.String("s3secretkey", cfg.S3SecretAccessKey, "S3 secret access key")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"input", "output", "host", "port", "storage", "storageroot", "bucket", "key",
		"s3endpoint", "s3region", "s3accesskey", "s3secretkey", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nLease Form Extractor - map fillable lease agreements to a tenant CSV\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LEASE_INPUT         Input PDF (local mode)\n")
		fmt.Fprintf(os.Stderr, "  LEASE_OUTPUT        Output CSV (local mode)\n")
		fmt.Fprintf(os.Stderr, "  LEASE_STORAGE       Object storage mode\n")
		fmt.Fprintf(os.Stderr, "  LEASE_BUCKET        Destination bucket\n")
		fmt.Fprintf(os.Stderr, "  LEASE_KEY           Destination key\n")
		fmt.Fprintf(os.Stderr, "  LEASE_S3ENDPOINT    Custom S3 endpoint\n")
		fmt.Fprintf(os.Stderr, "  LEASE_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  LEASE_MAXFILESIZE   Maximum file size\n")
	}
}

// VersionRequested reports whether args ask for version information. The
// drivers check this before LoadFromFlags.
func VersionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.StorageMode = strings.ToLower(viper.GetString("storage"))
	cfg.StorageRoot = viper.GetString("storageroot")
	cfg.DestinationBucket = viper.GetString("bucket")
	cfg.DestinationKey = viper.GetString("key")
	cfg.S3Endpoint = viper.GetString("s3endpoint")
	cfg.S3Region = viper.GetString("s3region")
	cfg.S3AccessKeyID = viper.GetString("s3accesskey")
	cfg.S3SecretAccessKey = viper.GetString("s3secretkey")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path cannot be empty")
	}
	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	switch c.StorageMode {
	case StorageS3, StorageMemory:
	case StorageLocal:
		if c.StorageRoot == "" {
			return errors.New("storage root cannot be empty in local storage mode")
		}
	default:
		return fmt.Errorf("invalid storage mode: %s (must be one of: s3, local, memory)", c.StorageMode)
	}

	if c.DestinationBucket == "" || c.DestinationKey == "" {
		return errors.New("destination bucket and key cannot be empty")
	}

	if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
		return errors.New("S3 access key ID and secret access key must be set together")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

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

// Address returns the trigger listen address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// SlogLevel converts LogLevel for log/slog
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// String returns a string representation of the configuration. Secrets are
// not included.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: %s, Output: %s, Address: %s, Storage: %s, Destination: %s/%s, "+
		"S3Endpoint: %s, S3Region: %s, LogLevel: %s, MaxFileSize: %d}",
		c.InputPath, c.OutputPath, c.Address(), c.StorageMode, c.DestinationBucket, c.DestinationKey,
		c.S3Endpoint, c.S3Region, c.LogLevel, c.MaxFileSize)
}
