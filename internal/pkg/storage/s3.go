// Package storage wraps the S3-compatible object store documents are
// uploaded to. Works against AWS proper or any path-style endpoint
// (MinIO, R2) via the endpoint option.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/researchhub/core/internal/config"
)

var ErrNotConfigured = errors.New("object storage is not configured")

const presignExpiry = time.Hour

type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	opts    appcfg.S3Options
}

// New builds the storage client. A missing bucket returns a disabled
// client rather than an error so the server can run upload-less in dev.
func New(ctx context.Context, opts appcfg.S3Options) (*S3, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return &S3{opts: opts}, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyleAccess
	})

	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		opts:    opts,
	}, nil
}

func (s *S3) Enabled() bool { return s.client != nil }

func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	return err
}

func (s *S3) Delete(ctx context.Context, key string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// ObjectURL returns a fetchable URL for a stored object: the public base
// when one is configured, otherwise a time-limited presigned GET.
func (s *S3) ObjectURL(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	if base := strings.TrimSpace(s.opts.PublicBaseURL); base != "" {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/"), nil
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
