// Package sink writes converted batches to their final destination, either
// the local filesystem or an S3 bucket.
package sink

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/schollz/progressbar/v3"
)

// Type selects where a Writer places its output.
type Type string

const (
	FileSystem Type = "filesystem"
	S3         Type = "s3"
)

// Config configures a Writer.
type Config struct {
	Type Type

	// OutputDir is the destination directory when Type is FileSystem.
	OutputDir string

	// S3Bucket and S3Region are required when Type is S3.
	S3Bucket string
	S3Region string

	// Upload shows a progress bar while uploading to S3.
	Upload bool

	// Retry is the total number of attempts an S3 upload gets (the first
	// try included) before Write gives up.
	Retry int
}

// Writer gzips and writes batch payloads to their configured destination.
type Writer struct {
	config Config
}

// NewWriter constructs a Writer, filling in the same defaults the teacher's
// output writer used.
func NewWriter(config Config) *Writer {
	if config.Retry <= 0 {
		config.Retry = 3
	}
	if config.OutputDir == "" {
		config.OutputDir = "output"
	}
	return &Writer{config: config}
}

// Write compresses data and writes it under key, which is interpreted as a
// filesystem path (Type == FileSystem) or an S3 object key (Type == S3),
// both relative to the writer's configured output location.
func (w *Writer) Write(key string, data []byte) error {
	compressed, err := compressData(data)
	if err != nil {
		return fmt.Errorf("sink: failed to compress data: %w", err)
	}

	switch w.config.Type {
	case S3:
		return w.writeToS3WithRetry(key, compressed)
	default:
		return w.writeToFileSystem(key, compressed)
	}
}

func compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeToFileSystem(key string, data []byte) error {
	path := filepath.Join(w.config.OutputDir, key+".gz")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("sink: failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("sink: failed to write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeToS3WithRetry(key string, data []byte) error {
	var lastErr error
	for attempt := 1; attempt <= w.config.Retry; attempt++ {
		if err := w.writeToS3(key, data); err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * time.Second)
			continue
		}
		return nil
	}
	return fmt.Errorf("sink: failed to upload %s after %d attempts: %w", key, w.config.Retry, lastErr)
}

func (w *Writer) writeToS3(key string, data []byte) error {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(w.config.S3Region))
	if err != nil {
		return fmt.Errorf("sink: failed to create AWS session: %w", err)
	}

	uploader := s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.Concurrency = 5
	})

	objectKey := filepath.ToSlash(filepath.Join(w.config.OutputDir, key+".gz"))

	var body io.Reader = bytes.NewReader(data)
	if w.config.Upload {
		bar := progressbar.DefaultBytes(int64(len(data)), fmt.Sprintf("uploading %s", objectKey))
		body = &progressReader{r: bytes.NewReader(data), bar: bar}
	}

	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(w.config.S3Bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("sink: failed to upload to s3://%s/%s: %w", w.config.S3Bucket, objectKey, err)
	}
	return nil
}

// progressReader wraps an io.Reader and advances a progress bar as bytes
// are read from it.
type progressReader struct {
	r   io.Reader
	bar *progressbar.ProgressBar
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.bar.Add(n)
	}
	return n, err
}
