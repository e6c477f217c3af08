package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alfredjeanlab/fidata/internal/config"
)

// S3Destination uploads the enriched dataset as a single object. The object
// key carries the extension of the snapshot format, so a JSONL export of the
// default key lands at fid/enriched.jsonl next to the CSV.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
	format Format
}

// NewS3Destination builds a destination from the [s3] settings. Credentials
// come from the default AWS chain. A custom endpoint switches to path-style
// addressing for MinIO and other S3-compatible stores.
func NewS3Destination(ctx context.Context, cfg config.S3Config, format Format) (*S3Destination, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("s3 destination: no bucket configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Destination{
		client: client,
		bucket: cfg.Bucket,
		key:    objectKey(cfg.Key, format),
		format: format,
	}, nil
}

// Write puts the snapshot, replacing any previous object at the key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(d.format)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", d.bucket, d.key, err)
	}
	return nil
}

func (d *S3Destination) String() string {
	return "s3://" + d.bucket + "/" + d.key
}

// objectKey swaps a .csv or .jsonl extension on key for the one matching
// format. Keys with any other extension are used as given.
func objectKey(key string, format Format) string {
	ext := path.Ext(key)
	if ext != ".csv" && ext != ".jsonl" {
		return key
	}
	want := ".csv"
	if format == FormatJSONL {
		want = ".jsonl"
	}
	return strings.TrimSuffix(key, ext) + want
}

func contentType(format Format) string {
	if format == FormatJSONL {
		return "application/x-ndjson"
	}
	return "text/csv"
}
