package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mkifle/portfolio-backend/config"
)

// AllowedImageTypes maps accepted content types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore puts project images in S3 and returns their public URL.
type ImageStore struct {
	client        objectPutter
	bucket        string
	region        string
	publicBaseURL string
	now           func() time.Time
}

func NewImageStore(ctx context.Context, s config.UploadSettings) (*ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newImageStore(s3.NewFromConfig(cfg), s), nil
}

func newImageStore(client objectPutter, s config.UploadSettings) *ImageStore {
	return &ImageStore{
		client:        client,
		bucket:        s.Bucket,
		region:        s.AWSRegion,
		publicBaseURL: strings.TrimSuffix(s.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

// Upload stores body under images/YYYY/MM/<uuid><ext>.
func (s *ImageStore) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	key := path.Join("images", s.now().UTC().Format("2006/01"), uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL returns the public address of key.
func (s *ImageStore) URL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
