// Package store persists evaluation results as an indented JSON array of TextEval trees.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/datar-psa/lazarsfeld/api"
)

// Store saves a batch of results and reads it back.
type Store interface {
	// Save writes results and returns the location they were written to.
	Save(ctx context.Context, results []api.TextEval) (string, error)
	// Load reads the results written at location.
	Load(ctx context.Context, location string) ([]api.TextEval, error)
}

// S3Config configures the S3 backend. Empty fields fall back to the AWS default chain.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Options configures Open
type Options struct {
	s3         S3Config
	gcsOptions []option.ClientOption
	now        func() time.Time
}

// WithS3Config sets the endpoint, region and static credentials of the S3 backend
func WithS3Config(cfg S3Config) func(*Options) {
	return func(o *Options) {
		o.s3 = cfg
	}
}

// WithGCSOptions passes client options to the Cloud Storage client
func WithGCSOptions(opts ...option.ClientOption) func(*Options) {
	return func(o *Options) {
		o.gcsOptions = append(o.gcsOptions, opts...)
	}
}

// WithClock sets the clock used for the date component of object keys
func WithClock(now func() time.Time) func(*Options) {
	return func(o *Options) {
		o.now = now
	}
}

// Open returns the Store for location:
//   - a plain path or file:// URL writes that file,
//   - s3://bucket/prefix writes prefix/<date>/<uuid>.json to S3,
//   - gs://bucket/prefix does the same on Google Cloud Storage.
func Open(ctx context.Context, location string, opts ...func(*Options)) (Store, error) {
	options := Options{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	scheme, bucket, prefix, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "", "file":
		return &fileStore{path: prefix}, nil
	case "s3":
		return newS3Store(ctx, bucket, prefix, options)
	case "gs":
		return newGCSStore(ctx, bucket, prefix, options)
	default:
		return nil, fmt.Errorf("%w: %q", api.ErrUnsupportedStore, scheme)
	}
}

// parseLocation splits location into scheme, bucket and object path.
// For local files the path is returned in the last position.
func parseLocation(location string) (scheme, bucket, key string, err error) {
	if location == "" {
		return "", "", "", fmt.Errorf("%w: empty location", api.ErrUnsupportedStore)
	}
	if !strings.Contains(location, "://") {
		return "", "", location, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", api.ErrUnsupportedStore, err)
	}
	switch u.Scheme {
	case "file":
		return "file", "", u.Path, nil
	case "s3", "gs":
		if u.Host == "" {
			return "", "", "", fmt.Errorf("%w: missing bucket in %q", api.ErrUnsupportedStore, location)
		}
		return u.Scheme, u.Host, strings.Trim(u.Path, "/"), nil
	default:
		return u.Scheme, "", "", nil
	}
}

// objectKey is prefix/<YYYY-MM-DD>/<uuid>.json.
func objectKey(prefix string, now time.Time) string {
	return path.Join(prefix, now.Format("2006-01-02"), uuid.NewString()+".json")
}

func encode(results []api.TextEval) ([]byte, error) {
	if results == nil {
		results = []api.TextEval{}
	}
	b, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return append(b, '\n'), nil
}

func decode(data []byte) ([]api.TextEval, error) {
	var results []api.TextEval
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}
