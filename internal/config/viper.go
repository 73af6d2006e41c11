package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dynapool/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// parameterSource tracks where each parameter value came from.
type parameterSource struct {
	Key    string
	Value  interface{}
	Source string
}

// flagNames maps viper config keys to their command-line flag names.
var flagNames = map[string]string{
	"app.log_format":       "log-format",
	"app.log_level":        "log-level",
	"pool.name":            "pool-name",
	"pool.min_threads":     "min-threads",
	"pool.max_threads":     "max-threads",
	"pool.cpu_check":       "cpu-check",
	"pool.batch_size":      "batch-size",
	"datastore.table":      "table",
	"datastore.region":     "region",
	"sink.type":            "sink",
	"sink.output":          "output",
	"sink.bucket":          "bucket",
	"sink.bucket_region":   "bucket-region",
}

// configKeys lists every viper key CreateDefaultConfig/InitConfig knows
// about, in the order LogConfigurationSources reports them.
var configKeys = []string{
	"app.log_format",
	"app.log_level",
	"pool.name",
	"pool.min_threads",
	"pool.max_threads",
	"pool.cpu_check",
	"pool.batch_size",
	"datastore.table",
	"datastore.region",
	"sink.type",
	"sink.output",
	"sink.bucket",
	"sink.bucket_region",
}

// getParameterSource determines where a parameter value came from (config
// file, env var, flag, or default).
func getParameterSource(key string, cmd *cobra.Command) parameterSource {
	flagValue := viper.Get(key)
	envKey := "DYNAPOOL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))

	flagName := flagNames[key]
	if flagName == "" {
		flagName = strings.Replace(key, ".", "-", -1)
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			return parameterSource{key, flagValue, "command line flag"}
		}
		current := cmd
		for current != nil {
			if f := current.PersistentFlags().Lookup(flagName); f != nil && f.Changed {
				return parameterSource{key, flagValue, "command line flag"}
			}
			current = current.Parent()
		}
	}

	if _, exists := os.LookupEnv(envKey); exists {
		return parameterSource{key, flagValue, "environment variable"}
	}

	if viper.GetViper().InConfig(key) {
		return parameterSource{key, flagValue, "config file"}
	}

	return parameterSource{key, flagValue, "default value"}
}

// LogConfigurationSources logs the source of each configuration parameter.
func LogConfigurationSources(shouldLog bool, cmd *cobra.Command) {
	if !shouldLog {
		return
	}

	logging.Debug("Configuration parameter sources:", nil)
	for _, key := range configKeys {
		source := getParameterSource(key, cmd)
		logging.Debug(fmt.Sprintf("  %s = %v (from %s)", source.Key, source.Value, source.Source), nil)
	}
}

// InitConfig initializes the Viper configuration: config file search,
// environment variable binding, and defaults. It never errors on a missing
// config file - only on one that exists but fails to parse.
func InitConfig(shouldLog bool, cmd *cobra.Command) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("DYNAPOOL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("app.log_format", Config.LogFormat)
	viper.SetDefault("app.log_level", Config.LogLevel)
	viper.SetDefault("pool.name", Config.PoolName)
	viper.SetDefault("pool.min_threads", Config.PoolMinThreads)
	viper.SetDefault("pool.max_threads", Config.PoolMaxThreads)
	viper.SetDefault("pool.cpu_check", Config.PoolCPUCheck)
	viper.SetDefault("pool.batch_size", Config.BatchSize)
	viper.SetDefault("datastore.table", "")
	viper.SetDefault("datastore.region", "")
	viper.SetDefault("sink.type", Config.SinkType)
	viper.SetDefault("sink.output", Config.SinkOutput)
	viper.SetDefault("sink.bucket", "")
	viper.SetDefault("sink.bucket_region", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if shouldLog {
			logging.Debug("No config file found, using defaults and environment variables", nil)
		}
	} else if shouldLog {
		logging.Debug("Loaded config file", map[string]interface{}{
			"path": viper.ConfigFileUsed(),
		})
	}

	return nil
}

// SetConfigFile sets a custom config file path and reloads the
// configuration.
func SetConfigFile(configFile string) error {
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig creates a default config file under the user's home
// directory if one doesn't already exist.
func CreateDefaultConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error getting home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".dynapool")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := []byte(`# dynapool configuration file

# Application-wide logging
app:
  log_format: text  # Log output format (text or json)
  log_level: INFO   # Set logging level (DEBUG, INFO, WARN, ERROR)

# Default worker pool
pool:
  name: dynapool        # Registry name for the pool cmd/run drives work through
  min_threads: 4        # Workers kept alive at all times
  max_threads: 32        # Ceiling on worker count and the task queue's capacity
  cpu_check: true        # Stop growing the pool once CPU usage crosses 90%
  batch_size: 1000       # Keys per batch-conversion task

# Data store accessed by cmd run
datastore:
  table: ""   # Backing table name
  region: ""  # AWS region the table lives in

# Where converted batches are written
sink:
  type: filesystem  # filesystem or s3
  output: output    # directory (filesystem) or key prefix (s3)
  bucket: ""        # S3 bucket name (required when type == s3)
  bucket_region: "" # S3 bucket region
`)
		if err := os.WriteFile(configPath, defaultConfig, 0644); err != nil {
			return fmt.Errorf("error writing default config file: %w", err)
		}
	}

	return nil
}
