package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/alingse/visionscribe/internal/config"
)

var ErrNotFound = errors.New("artifact not found")

// Store reads and writes the JSON artifacts passed between stages.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte, contentType string) error
}

// Location is a parsed artifact URI. Bucket is empty for local paths.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

func (l Location) String() string {
	if l.Scheme == "s3" {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseURI accepts s3://bucket/key, file:///path or a plain path.
func ParseURI(uri string) (Location, error) {
	switch {
	case uri == "":
		return Location{}, fmt.Errorf("empty artifact location")
	case strings.HasPrefix(uri, "s3://"):
		rest := strings.TrimPrefix(uri, "s3://")
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("s3 location must be s3://bucket/key: %s", uri)
		}
		return Location{Scheme: "s3", Bucket: bucket, Key: key}, nil
	case strings.HasPrefix(uri, "file://"):
		p := strings.TrimPrefix(uri, "file://")
		if p == "" {
			return Location{}, fmt.Errorf("file location has no path: %s", uri)
		}
		return Location{Scheme: "file", Key: p}, nil
	case strings.Contains(uri, "://"):
		return Location{}, fmt.Errorf("unsupported artifact scheme: %s", uri)
	}
	return Location{Scheme: "file", Key: uri}, nil
}

// Resolver routes URIs to the local filesystem or S3. The S3 client is
// created on first use.
type Resolver struct {
	Fs       afero.Fs
	S3Config config.S3Config

	s3 map[string]*S3Store
}

func NewResolver(fs afero.Fs, s3cfg config.S3Config) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{Fs: fs, S3Config: s3cfg, s3: make(map[string]*S3Store)}
}

func (r *Resolver) store(ctx context.Context, loc Location) (Store, error) {
	if loc.Scheme != "s3" {
		return NewFileStore(r.Fs), nil
	}
	if s, ok := r.s3[loc.Bucket]; ok {
		return s, nil
	}
	s, err := NewS3Store(ctx, loc.Bucket, r.S3Config)
	if err != nil {
		return nil, err
	}
	if r.s3 == nil {
		r.s3 = make(map[string]*S3Store)
	}
	r.s3[loc.Bucket] = s
	return s, nil
}

func (r *Resolver) Read(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	s, err := r.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, loc.Key)
}

func (r *Resolver) Write(ctx context.Context, uri string, data []byte, contentType string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	s, err := r.store(ctx, loc)
	if err != nil {
		return err
	}
	return s.Write(ctx, loc.Key, data, contentType)
}
