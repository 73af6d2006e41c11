// Package datastore provides the data-store accessor the batch converter
// fans work out against: exactly the "I/O-bound data-store access" workload
// the worker pool this module builds on names as its motivating use case.
package datastore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// maxBatchGetKeys is DynamoDB's hard limit on keys per BatchGetItem call.
const maxBatchGetKeys = 100

// Record is a single item fetched from the store, with its primary key and
// every other attribute flattened to strings (the batch converter only
// needs to move records through, not interpret them).
type Record struct {
	Key        string
	Attributes map[string]string
}

// Client reads records from a DynamoDB table in bounded-size batches.
type Client struct {
	table string
	keyAttribute string
	ddb   dynamodbiface.DynamoDBAPI
}

// Config describes how to reach the backing table.
type Config struct {
	Table        string
	Region       string
	KeyAttribute string // defaults to "id"
}

// NewClient constructs a Client against a real DynamoDB table.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("datastore: table name is required")
	}
	keyAttribute := cfg.KeyAttribute
	if keyAttribute == "" {
		keyAttribute = "id"
	}

	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("datastore: failed to create AWS session: %w", err)
	}

	return &Client{table: cfg.Table, keyAttribute: keyAttribute, ddb: dynamodb.New(sess)}, nil
}

// newClientWithAPI is a test seam letting tests substitute a fake
// dynamodbiface.DynamoDBAPI instead of talking to real DynamoDB.
func newClientWithAPI(table, keyAttribute string, ddb dynamodbiface.DynamoDBAPI) *Client {
	return &Client{table: table, keyAttribute: keyAttribute, ddb: ddb}
}

// BatchGet fetches every key in keys, chunking requests to DynamoDB's
// BatchGetItem key limit. It is the function a batch.Converter's Convert
// function typically calls once per batch.
func (c *Client) BatchGet(ctx context.Context, keys []string) ([]Record, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	var records []Record
	for start := 0; start < len(keys); start += maxBatchGetKeys {
		end := start + maxBatchGetKeys
		if end > len(keys) {
			end = len(keys)
		}
		chunk, err := c.batchGetChunk(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		records = append(records, chunk...)
	}
	return records, nil
}

func (c *Client) batchGetChunk(ctx context.Context, keys []string) ([]Record, error) {
	keysAndAttrs := &dynamodb.KeysAndAttributes{}
	for _, key := range keys {
		keysAndAttrs.Keys = append(keysAndAttrs.Keys, map[string]*dynamodb.AttributeValue{
			c.keyAttribute: {S: aws.String(key)},
		})
	}

	requestItems := map[string]*dynamodb.KeysAndAttributes{c.table: keysAndAttrs}
	var records []Record

	for {
		out, err := c.ddb.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: requestItems,
		})
		if err != nil {
			return nil, fmt.Errorf("datastore: batch get from %q: %w", c.table, err)
		}

		for _, item := range out.Responses[c.table] {
			records = append(records, recordFromItem(c.keyAttribute, item))
		}

		if len(out.UnprocessedKeys) == 0 {
			return records, nil
		}
		requestItems = out.UnprocessedKeys
	}
}

func recordFromItem(keyAttribute string, item map[string]*dynamodb.AttributeValue) Record {
	rec := Record{Attributes: make(map[string]string, len(item))}
	for name, val := range item {
		s := attributeValueToString(val)
		if name == keyAttribute {
			rec.Key = s
		}
		rec.Attributes[name] = s
	}
	return rec
}

func attributeValueToString(v *dynamodb.AttributeValue) string {
	switch {
	case v.S != nil:
		return *v.S
	case v.N != nil:
		return *v.N
	case v.BOOL != nil:
		if *v.BOOL {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
