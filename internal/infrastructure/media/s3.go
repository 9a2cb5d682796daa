// Package media stores product images on S3-compatible object storage
// (AWS S3, MinIO, R2). Uploaded objects are public-read; the returned URL
// is what gets appended to the product's image list.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds the object storage settings, all sourced from env.
type Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // empty for real AWS
	BaseURL  string // public URL prefix; derived from bucket+region when empty
}

type Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: bucket is not configured")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	// Static credentials are required for MinIO / R2.
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Storage{
		client:  s3.NewFromConfig(awsCfg, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// UploadProductImage stores an image under products/<productID>/ and
// returns its public URL. The original filename only contributes its
// extension; the object key is a fresh UUID.
func (s *Storage) UploadProductImage(ctx context.Context, productID, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("media: read upload: %w", err)
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.New().String(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("media: put object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".glb":
		return "model/gltf-binary"
	default:
		return "image/jpeg"
	}
}
