package config

import "runtime"

// GlobalConfig holds the global configuration for the application.
type GlobalConfig struct {
	// LogFormat is the format for logging (text or json).
	LogFormat string

	// LogLevel is the level for logging.
	LogLevel string

	// PoolName is the name registered with the worker pool factory for the
	// default pool cmd/run drives work through.
	PoolName string

	// PoolMinThreads is the minimum number of workers the pool keeps alive.
	PoolMinThreads int

	// PoolMaxThreads is the maximum number of workers the pool may grow to,
	// and the size of its bounded task queue.
	PoolMaxThreads int

	// PoolCPUCheck enables the CPU-usage ceiling on pool growth.
	PoolCPUCheck bool

	// BatchSize is how many keys each batch-conversion task receives.
	BatchSize int

	// DataStoreTable is the backing store table name.
	DataStoreTable string

	// DataStoreRegion is the AWS region the data store lives in.
	DataStoreRegion string

	// SinkType selects where converted batches are written: "filesystem" or
	// "s3".
	SinkType string

	// SinkOutput is a filesystem directory (SinkType == "filesystem") or an
	// object key prefix (SinkType == "s3").
	SinkOutput string

	// SinkBucket is the S3 bucket name (required when SinkType == "s3").
	SinkBucket string

	// SinkBucketRegion is the region of SinkBucket.
	SinkBucketRegion string
}

// Config is the global configuration instance.
var Config = &GlobalConfig{
	LogFormat:      "text",
	LogLevel:       "INFO",
	PoolName:       "dynapool",
	PoolMinThreads: runtime.NumCPU(),
	PoolMaxThreads: runtime.NumCPU() * 8, // tasks are I/O bound, so oversubscribe cores
	PoolCPUCheck:   true,
	BatchSize:      1000,
	SinkType:       "filesystem",
	SinkOutput:     "output",
}
