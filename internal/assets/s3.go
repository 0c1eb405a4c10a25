package assets

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures the bucket the site is deployed to.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// S3Fetcher serves assets from an S3-compatible bucket (AWS S3, MinIO,
// or any store speaking the same API).
type S3Fetcher struct {
	client *s3.Client
	bucket string
}

// NewS3Fetcher builds a fetcher with a custom endpoint and path-style
// addressing, which MinIO requires.
func NewS3Fetcher(cfg S3Config) *S3Fetcher {
	var endpointURL string
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		endpointURL = cfg.Endpoint
	} else {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		endpointURL = protocol + "://" + cfg.Endpoint
	}

	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		BaseEndpoint: aws.String(endpointURL),
		UsePathStyle: true,
	})

	return &S3Fetcher{client: client, bucket: cfg.Bucket}
}

// Fetch maps a URL path to an object key and retrieves it. The bare root
// serves index.html. Missing keys come back as a 404 Asset; any other
// failure is a transport error for the caller to handle.
func (f *S3Fetcher) Fetch(ctx context.Context, path string) (*Asset, error) {
	key := strings.TrimPrefix(path, "/")
	if key == "" {
		key = "index.html"
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return NotFoundAsset(), nil
		}
		return nil, err
	}

	a := &Asset{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       out.Body,
	}
	if out.ContentType != nil {
		a.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		a.Header.Set("Content-Length", strconv.FormatInt(*out.ContentLength, 10))
	}
	if out.ETag != nil {
		a.Header.Set("ETag", *out.ETag)
	}
	if out.CacheControl != nil {
		a.Header.Set("Cache-Control", *out.CacheControl)
	}
	if out.LastModified != nil {
		a.Header.Set("Last-Modified", out.LastModified.UTC().Format(http.TimeFormat))
	}
	return a, nil
}
