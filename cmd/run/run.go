// Package run implements the command that drives a batch conversion through
// a worker pool, reading keys from a data store and writing converted
// batches to a sink.
package run

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dynapool/internal/batch"
	"dynapool/internal/config"
	"dynapool/internal/datastore"
	"dynapool/internal/logging"
	"dynapool/internal/sink"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var keysFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch keys from the data store in batches and write converted results to the sink",
		Long: `run reads a newline-delimited list of keys, fans them out to the
configured worker pool in batches, fetches each batch from the data store,
and writes the fetched records to the configured sink.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := readKeys(keysFile)
			if err != nil {
				return err
			}
			return runConversion(cmd.Context(), keys)
		},
	}

	cmd.Flags().StringVar(&keysFile, "keys", "", "Path to a newline-delimited file of keys to fetch (required)")
	cmd.MarkFlagRequired("keys")

	return cmd
}

func readKeys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("run: failed to open keys file %q: %w", path, err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("run: failed to read keys file %q: %w", path, err)
	}
	return keys, nil
}

func runConversion(ctx context.Context, keys []string) error {
	client, err := datastore.NewClient(datastore.Config{
		Table:  config.Config.DataStoreTable,
		Region: config.Config.DataStoreRegion,
	})
	if err != nil {
		return err
	}

	writer := sink.NewWriter(sink.Config{
		Type:      sink.Type(config.Config.SinkType),
		OutputDir: config.Config.SinkOutput,
		S3Bucket:  config.Config.SinkBucket,
		S3Region:  config.Config.SinkBucketRegion,
		Upload:    true,
	})

	converter := &batch.Converter{
		PoolName:  config.Config.PoolName,
		PoolSize:  config.Config.PoolMaxThreads,
		CPUCheck:  config.Config.PoolCPUCheck,
		BatchSize: config.Config.BatchSize,
		Convert: func(batchIndex int, values []string) error {
			records, err := client.BatchGet(ctx, values)
			if err != nil {
				return err
			}

			payload, err := json.Marshal(records)
			if err != nil {
				return fmt.Errorf("run: failed to marshal batch %d: %w", batchIndex, err)
			}

			key := fmt.Sprintf("batch_%d", batchIndex)
			if err := writer.Write(key, payload); err != nil {
				return err
			}

			logging.Debug(fmt.Sprintf("wrote batch %d", batchIndex), map[string]interface{}{
				"keys":    len(values),
				"records": len(records),
			})
			return nil
		},
	}

	logging.Info(fmt.Sprintf("converting %d keys", len(keys)), map[string]interface{}{
		"pool":       config.Config.PoolName,
		"batch_size": config.Config.BatchSize,
	})

	return converter.ConvertAll(keys, 0, len(keys))
}
