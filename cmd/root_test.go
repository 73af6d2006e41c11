package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynapool/internal/config"
)

func setupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "dynapool",
		Run: func(cmd *cobra.Command, args []string) {},
	}
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-format", "text", "log format")
	rootCmd.PersistentFlags().String("log-level", "INFO", "log level")
	rootCmd.PersistentFlags().String("pool-name", "dynapool", "pool name")
	rootCmd.PersistentFlags().Int("min-threads", 4, "min threads")
	rootCmd.PersistentFlags().Int("max-threads", 32, "max threads")
	rootCmd.PersistentFlags().Bool("cpu-check", true, "cpu check")
	rootCmd.PersistentFlags().Int("batch-size", 1000, "batch size")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "help",
		Short: "Help about any command",
		Run:   func(cmd *cobra.Command, args []string) {},
	})

	return rootCmd
}

func TestExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configFile, []byte(`
pool:
  name: batch-pool
  min_threads: 2
  max_threads: 16
`), 0644)
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		validate func(t *testing.T)
	}{
		{
			name:    "version command should not require config",
			args:    []string{"dynapool", "version"},
			wantErr: false,
			validate: func(t *testing.T) {
				assert.Empty(t, config.Config.PoolName, "version command should not load config")
			},
		},
		{
			name:    "help command should not require config",
			args:    []string{"dynapool", "help"},
			wantErr: false,
			validate: func(t *testing.T) {
				assert.Empty(t, config.Config.PoolName, "help command should not load config")
			},
		},
		{
			name: "valid config file should be loaded",
			args: []string{"dynapool", "--config", configFile},
			validate: func(t *testing.T) {
				assert.Equal(t, "batch-pool", config.Config.PoolName)
				assert.Equal(t, 2, config.Config.PoolMinThreads)
				assert.Equal(t, 16, config.Config.PoolMaxThreads)
			},
		},
		{
			name: "command line flags should override config",
			args: []string{
				"dynapool",
				"--config", configFile,
				"--pool-name", "override-pool",
				"--max-threads", "64",
			},
			validate: func(t *testing.T) {
				assert.Equal(t, "override-pool", config.Config.PoolName)
				assert.Equal(t, 64, config.Config.PoolMaxThreads)
			},
		},
		{
			name: "default values should be set when not specified",
			args: []string{"dynapool"},
			validate: func(t *testing.T) {
				assert.Equal(t, "dynapool", config.Config.PoolName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			viper.SetConfigType("yaml")
			config.Config = &config.GlobalConfig{}

			os.Args = tt.args

			rootCmd := setupRootCmd()
			rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
				if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
					config.Config = &config.GlobalConfig{}
					return nil
				}

				if err := viper.BindPFlag("pool.name", cmd.Root().PersistentFlags().Lookup("pool-name")); err != nil {
					return err
				}
				if err := viper.BindPFlag("pool.min_threads", cmd.Root().PersistentFlags().Lookup("min-threads")); err != nil {
					return err
				}
				if err := viper.BindPFlag("pool.max_threads", cmd.Root().PersistentFlags().Lookup("max-threads")); err != nil {
					return err
				}

				if configFile := cmd.Flag("config").Value.String(); configFile != "" {
					viper.SetConfigFile(configFile)
					if err := viper.ReadInConfig(); err != nil {
						return err
					}
				}

				viper.SetDefault("pool.name", "dynapool")
				viper.SetDefault("pool.min_threads", 4)
				viper.SetDefault("pool.max_threads", 32)

				config.Config.PoolName = viper.GetString("pool.name")
				config.Config.PoolMinThreads = viper.GetInt("pool.min_threads")
				config.Config.PoolMaxThreads = viper.GetInt("pool.max_threads")

				return nil
			}

			err = rootCmd.Execute()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t)
			}
		})
	}
}
