package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
)

// S3Config locates the collection object in an S3-compatible store.
type S3Config struct {
	Bucket       string
	Key          string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client reads the collection as one JSON object.
type S3Client struct {
	api     objectGetter
	bucket  string
	key     string
	timeout time.Duration
}

func NewS3Client(ctx context.Context, cfg S3Config, timeout time.Duration) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Client(api, cfg.Bucket, cfg.Key, timeout), nil
}

func newS3Client(api objectGetter, bucket, key string, timeout time.Duration) *S3Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &S3Client{api: api, bucket: bucket, key: key, timeout: timeout}
}

func (c *S3Client) FetchAll(ctx context.Context) ([]models.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, transportErr(SourceS3, mapS3Error(err))
	}
	defer func() {
		_ = out.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(out.Body, MaxResponseSize+1))
	if err != nil {
		return nil, transportErr(SourceS3, fmt.Errorf("%w: failed to read object: %w", ErrUnavailable, err))
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, transportErr(SourceS3, fmt.Errorf("%w: object exceeds %d bytes", ErrDecode, MaxResponseSize))
	}

	albums, err := decodeAlbums(body)
	if err != nil {
		return nil, transportErr(SourceS3, err)
	}
	return albums, nil
}

func (c *S3Client) Close() error {
	return nil
}

func mapS3Error(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() < 500 {
		return err
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
