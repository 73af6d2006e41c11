package init

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultEnvContent = `# dynapool Environment Configuration
# Generated by dynapool init env

#######################
# Application Settings
#######################

# Log output format (text or json)
# Default: text
DYNAPOOL_APP_LOG_FORMAT=text

# Log level (DEBUG, INFO, WARN, ERROR)
# Default: INFO
DYNAPOOL_APP_LOG_LEVEL=INFO

#######################
# Worker Pool Settings
#######################

# Registry name for the default worker pool
# Default: dynapool
DYNAPOOL_POOL_NAME=dynapool

# Workers kept alive at all times
# Default: number of CPU cores
DYNAPOOL_POOL_MIN_THREADS=4

# Maximum worker count and task queue capacity
# Default: number of CPU cores * 8
DYNAPOOL_POOL_MAX_THREADS=32

# Stop growing the pool once CPU usage crosses 90%
# Default: true
DYNAPOOL_POOL_CPU_CHECK=true

# Keys per batch-conversion task
# Default: 1000
DYNAPOOL_POOL_BATCH_SIZE=1000

#######################
# Data Store Settings
#######################

# Backing table name
DYNAPOOL_DATASTORE_TABLE=

# AWS region the table lives in
DYNAPOOL_DATASTORE_REGION=

#######################
# Sink Settings
#######################

# Output type (filesystem or s3)
# Default: filesystem
DYNAPOOL_SINK_TYPE=filesystem

# Output directory (filesystem) or key prefix (s3)
# Default: output
DYNAPOOL_SINK_OUTPUT=output

# S3 bucket name
# Required when DYNAPOOL_SINK_TYPE=s3
DYNAPOOL_SINK_BUCKET=

# S3 bucket region
# Required when DYNAPOOL_SINK_TYPE=s3
DYNAPOOL_SINK_BUCKET_REGION=
`

// NewEnvCmd creates the env subcommand
func NewEnvCmd() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Create a default .env file",
		Long: `Create a default .env file with recommended settings.

The file will be created in the current directory by default.
You can specify a different location using the --output flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = ".env"
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
			if err := os.WriteFile(absPath, []byte(defaultEnvContent), 0644); err != nil {
				return fmt.Errorf("failed to write env file: %w", err)
			}

			fmt.Printf("Created env file: %s\n", absPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: ./.env)")

	return cmd
}
