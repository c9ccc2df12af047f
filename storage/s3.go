package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config options for the S3 backend
type S3Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // Optional static access key, default chain otherwise
	SecretAccessKey string // Optional static secret key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Path-style addressing, needed by MinIO
	PublicBaseURL   string // Optional CDN or bucket URL used to build locators
}

// ObjectAPI is the part of *s3.Client the backend uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores blobs in an S3 bucket.
type S3 struct {
	client  ObjectAPI
	bucket  string
	baseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3WithClient(client, cfg), nil
}

// NewS3WithClient wires an existing client, mainly for tests.
func NewS3WithClient(client ObjectAPI, cfg S3Config) *S3 {
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		switch {
		case cfg.Endpoint != "" && cfg.UsePathStyle:
			baseURL = joinURL(cfg.Endpoint, cfg.Bucket)
		case cfg.Endpoint != "":
			baseURL = cfg.Endpoint
		default:
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3{client: client, bucket: cfg.Bucket, baseURL: baseURL}
}

func (b *S3) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("S3 upload failed: %w", err)
	}
	return joinURL(b.baseURL, key), nil
}

func (b *S3) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("S3 delete failed: %w", err)
	}
	return nil
}
