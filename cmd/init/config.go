package init

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigContent = `# dynapool configuration file

# Application-wide logging
app:
  log_format: text  # Log output format (text or json)
  log_level: INFO   # Set logging level (DEBUG, INFO, WARN, ERROR)

# Default worker pool
pool:
  name: dynapool        # Registry name for the pool cmd/run drives work through
  min_threads: 4         # Workers kept alive at all times
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
  bucket_region: "" # S3 bucket region`

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create a default config.yaml file",
		Long: `Create a default config.yaml file with recommended settings.

The file will be created in the current directory by default.
You can specify a different location using the --output flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "config.yaml"
			}

			// Convert to absolute path
			absPath, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("failed to resolve absolute path: %w", err)
			}

			// Check if file exists
			if _, err := os.Stat(absPath); err == nil && !force {
				return fmt.Errorf("file %s already exists. Use --force to overwrite", absPath)
			}

			// Create directory if it doesn't exist
			dir := filepath.Dir(absPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}

			// Write the file
			if err := os.WriteFile(absPath, []byte(defaultConfigContent), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("Created config file: %s\n", absPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./config.yaml)")

	return cmd
}
