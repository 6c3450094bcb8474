// Package objectstorage puts and fetches the opaque file bytes a
// shipment's files carry (spec §1 lists the blob bytes themselves as
// out of scope for the lifecycle engine, but §4.4's file flows still
// need somewhere to put them before recording the location in C4).
package objectstorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store abstracts the object-storage operations a file upload/download
// handler needs, so handler tests can substitute a fake instead of
// talking to S3.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, sizeBytes int64) error
	SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// S3Store implements Store against an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	presign *s3.PresignClient
	bucket string
}

// New builds an S3Store for bucket using the default AWS credential
// chain and region resolution (spec §6 configuration: "object-storage
// bucket").
func New(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{client: client, presign: s3.NewPresignClient(client), bucket: bucket}, nil
}

// Put uploads body to key under the configured bucket.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, sizeBytes int64) error {
	buf, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading upload body: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(sizeBytes),
	})
	if err != nil {
		return fmt.Errorf("putting object %s: %w", key, err)
	}
	return nil
}

// SignedGetURL returns a time-limited download URL for key, used by
// the files/{id}/download endpoint instead of proxying bytes through
// this process.
func (s *S3Store) SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presigning object %s: %w", key, err)
	}
	return out.URL, nil
}

var _ Store = (*S3Store)(nil)
