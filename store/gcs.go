package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/datar-psa/lazarsfeld/api"
)

// objectIO reads and writes objects in Cloud Storage.
type objectIO interface {
	NewWriter(ctx context.Context, bucket, key string) io.WriteCloser
	NewReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type gcsClient struct {
	client *storage.Client
}

func (g gcsClient) NewWriter(ctx context.Context, bucket, key string) io.WriteCloser {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	return w
}

func (g gcsClient) NewReader(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return g.client.Bucket(bucket).Object(key).NewReader(ctx)
}

type gcsStore struct {
	objects objectIO
	bucket  string
	prefix  string
	now     func() time.Time
}

func newGCSStore(ctx context.Context, bucket, prefix string, opts Options) (*gcsStore, error) {
	client, err := storage.NewClient(ctx, opts.gcsOptions...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &gcsStore{objects: gcsClient{client: client}, bucket: bucket, prefix: prefix, now: opts.now}, nil
}

func (g *gcsStore) Save(ctx context.Context, results []api.TextEval) (string, error) {
	b, err := encode(results)
	if err != nil {
		return "", err
	}
	key := objectKey(g.prefix, g.now())
	location := fmt.Sprintf("gs://%s/%s", g.bucket, key)

	w := g.objects.NewWriter(ctx, g.bucket, key)
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", location, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", location, err)
	}
	return location, nil
}

func (g *gcsStore) Load(ctx context.Context, location string) ([]api.TextEval, error) {
	scheme, bucket, key, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	if scheme != "gs" || key == "" {
		return nil, fmt.Errorf("bad gcs ref (need gs://bucket/key): %q", location)
	}

	r, err := g.objects.NewReader(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer r.Close() //nolint:errcheck

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return decode(b)
}
