package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/datar-psa/lazarsfeld/api"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Store struct {
	client s3API
	bucket string
	prefix string
	now    func() time.Time
}

func newS3Store(ctx context.Context, bucket, prefix string, opts Options) (*s3Store, error) {
	region := opts.s3.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.s3.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.s3.AccessKey, opts.s3.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.s3.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.s3.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: bucket, prefix: prefix, now: opts.now}, nil
}

func (s *s3Store) Save(ctx context.Context, results []api.TextEval) (string, error) {
	b, err := encode(results)
	if err != nil {
		return "", err
	}
	key := objectKey(s.prefix, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3Store) Load(ctx context.Context, location string) ([]api.TextEval, error) {
	scheme, bucket, key, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	if scheme != "s3" || key == "" {
		return nil, fmt.Errorf("bad s3 ref (need s3://bucket/key): %q", location)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	defer out.Body.Close() //nolint:errcheck

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return decode(b)
}
