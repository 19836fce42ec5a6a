package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/marcelsud/webhook-workflow/archive"
)

// PutObjectAPI is the part of the S3 client the archiver uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes payloads to an S3 bucket
type Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// Option configures an Archiver
type Option func(*Archiver)

// WithClient replaces the S3 client
func WithClient(c PutObjectAPI) Option {
	return func(a *Archiver) { a.client = c }
}

// WithPrefix prepends a key prefix to every object
func WithPrefix(prefix string) Option {
	return func(a *Archiver) { a.prefix = prefix }
}

// NewArchiver creates an archiver for bucket, loading the default AWS configuration
// unless a client is supplied
func NewArchiver(ctx context.Context, bucket string, opts ...Option) (*Archiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket cannot be empty")
	}
	a := &Archiver{bucket: bucket}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS configuration: %w", err)
		}
		a.client = s3.NewFromConfig(cfg)
	}
	return a, nil
}

// Archive uploads data under key
func (a *Archiver) Archive(ctx context.Context, key string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(path.Join(a.prefix, key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("putting object %s: %w", key, err)
	}
	return nil
}

var _ archive.Archiver = (*Archiver)(nil)
