// Package files stores design assets in S3 and resolves short-lived
// display URLs for them.
package files

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3 connection settings.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	URLExpiry       time.Duration
}

// Store keeps design files under designs/{orderID}/{timestamp}_{name}
// and implements the order module's file store.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	now     func() time.Time
}

// NewStore builds an S3-backed store. Static credentials are optional;
// when empty the default AWS credential chain applies.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("files: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  expiry,
		now:     time.Now,
	}, nil
}

// Store uploads the asset and returns its object key.
func (s *Store) Store(ctx context.Context, orderID int64, data []byte, filename string) (string, error) {
	name := filepath.Base(filename)
	key := fmt.Sprintf("designs/%d/%d_%s", orderID, s.now().Unix(), name)

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("files: upload %s: %w", key, err)
	}
	return key, nil
}

// ResolveURL returns a presigned GET URL for the stored object.
func (s *Store) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.expiry
	})
	if err != nil {
		return "", fmt.Errorf("files: presign %s: %w", ref, err)
	}
	return req.URL, nil
}

// Delete removes a stored object. Used when an order replaces its
// design file.
func (s *Store) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("files: delete %s: %w", ref, err)
	}
	return nil
}
