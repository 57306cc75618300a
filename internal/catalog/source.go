package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"camelia/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Source loads the product list.
type Source interface {
	// Load reads the whole product list. Files ending in .gz are decompressed.
	Load(ctx context.Context) ([]model.Product, error)
}

// fileSource reads the product list from the local file system.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a source reading a JSON array of products from path.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "catalog-file-source").Logger(),
	}
}

// Load reads and decodes the product file.
func (s *fileSource) Load(ctx context.Context) ([]model.Product, error) {
	s.logger.Info().Str("file", s.path).Msg("loading product list")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open product file")
		return nil, fmt.Errorf("failed to open product file %s: %w", s.path, err)
	}
	defer file.Close()

	products, err := decodeProducts(ctx, file, s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to decode product file")
		return nil, err
	}

	s.logger.Info().
		Str("file", s.path).
		Int("products_loaded", len(products)).
		Msg("product list loaded successfully")

	return products, nil
}

// s3Source reads the product list from AWS S3.
type s3Source struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates a source reading the object bucket/key.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "catalog-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 product source initialised")

	return &s3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Load downloads and decodes the product object.
func (s *s3Source) Load(ctx context.Context) ([]model.Product, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading product list from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	products, err := decodeProducts(ctx, result.Body, s.key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to decode product object")
		return nil, err
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("products_loaded", len(products)).
		Msg("product list loaded successfully from S3")

	return products, nil
}

// fallbackSource tries the primary source first, then the secondary one.
type fallbackSource struct {
	primary   Source
	secondary Source
	logger    zerolog.Logger
}

// NewFallbackSource creates a source that falls back to secondary when primary is nil
// or fails.
func NewFallbackSource(primary, secondary Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "catalog-fallback-source").Logger(),
	}
}

// Load attempts the primary source, then the secondary.
func (s *fallbackSource) Load(ctx context.Context) ([]model.Product, error) {
	if s.primary != nil {
		products, err := s.primary.Load(ctx)
		if err == nil {
			return products, nil
		}

		s.logger.Warn().
			Err(err).
			Msg("failed to load from primary source, falling back")
	}

	return s.secondary.Load(ctx)
}

func decodeProducts(ctx context.Context, r io.Reader, name string) ([]model.Product, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products from %s: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
