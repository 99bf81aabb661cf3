// Package aws defines functions used to interact with the AWS API
package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linx/social-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type S3Client struct {
	C       *s3.Client
	Presign *s3.PresignClient
	Bucket  *string
}

// NewS3 connects to the configured bucket and fails if it can't be reached.
// A custom endpoint selects an S3 compatible store (MinIO, R2, ...).
func NewS3(ctx context.Context, c config.AWS) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}

	// Without static keys the default chain (env, shared config, IAM role) is used
	if c.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(c.Bucket)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", c.Bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:       client,
		Presign: s3.NewPresignClient(client),
		Bucket:  bucket,
	}, nil
}

// PresignPut returns a URL the client can PUT exactly one object of the
// given type and size to
func (s *S3Client) PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	req, err := s.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload, %w", err)
	}

	return req.URL, nil
}

func (s *S3Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign download, %w", err)
	}

	return req.URL, nil
}

func (s *S3Client) DeleteObject(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object, %w", err)
	}

	return nil
}
