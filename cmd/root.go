package cmd

import (
	"strings"

	initCmd "dynapool/cmd/init"
	"dynapool/cmd/list"
	"dynapool/cmd/run"
	"dynapool/cmd/version"
	"dynapool/internal/config"
	"dynapool/internal/logging"

	"github.com/spf13/cobra"
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	var (
		logLevel   string
		configFile string
	)

	rootCmd := &cobra.Command{
		Use:   "dynapool",
		Short: "dynapool - a dynamic, CPU-aware worker pool for batch data processing",
		Long: `dynapool runs batches of work through a worker pool that grows and shrinks
with demand and available CPU, reading from a data store and writing
results to a filesystem or S3 sink.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			if err := config.InitConfig(true, cmd); err != nil {
				return err
			}
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			if configFile != "" {
				if err := config.SetConfigFile(configFile); err != nil {
					return err
				}
			}
			config.LogConfigurationSources(true, cmd)

			logFormat := logging.Text
			if config.Config.LogFormat == "json" {
				logFormat = logging.JSON
			}

			var level logging.Level
			switch strings.ToUpper(logLevel) {
			case "DEBUG":
				level = logging.DEBUG
			case "WARN":
				level = logging.WARN
			case "ERROR":
				level = logging.ERROR
			default:
				level = logging.INFO
			}

			logging.Configure(logging.LogConfig{
				Level:  level,
				Format: logFormat,
			})

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&config.Config.PoolName, "pool-name", config.Config.PoolName, "Registry name for the default worker pool")
	rootCmd.PersistentFlags().IntVar(&config.Config.PoolMinThreads, "min-threads", config.Config.PoolMinThreads, "Workers kept alive at all times")
	rootCmd.PersistentFlags().IntVar(&config.Config.PoolMaxThreads, "max-threads", config.Config.PoolMaxThreads, "Maximum worker count and task queue capacity")
	rootCmd.PersistentFlags().BoolVar(&config.Config.PoolCPUCheck, "cpu-check", config.Config.PoolCPUCheck, "Stop growing the pool once CPU usage crosses 90%")
	rootCmd.PersistentFlags().IntVar(&config.Config.BatchSize, "batch-size", config.Config.BatchSize, "Keys per batch-conversion task")
	rootCmd.PersistentFlags().StringVar(&config.Config.LogFormat, "log-format", config.Config.LogFormat, "Log output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.Config.LogLevel, "Set logging level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(run.NewRunCmd())
	rootCmd.AddCommand(list.NewListCmd())
	rootCmd.AddCommand(initCmd.NewInitCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd.Execute()
}
