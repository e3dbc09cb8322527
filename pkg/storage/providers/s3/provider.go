package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

const (
	httpTimeout  = 2 * time.Minute
	maxIdleConns = 100
)

// s3API is the subset of *s3.Client the provider calls.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Provider implements storage.ObjectStore on AWS S3 or an S3-compatible
// service.
type S3Provider struct {
	client s3API
	region string
	logger logging.Interface
}

var _ storage.ObjectStore = (*S3Provider)(nil)

// NewS3Provider builds an S3 client from config. Static credentials are used
// when both halves are set; otherwise the default AWS credential chain
// applies. SDK retries are disabled: each call is attempted once.
func NewS3Provider(ctx context.Context, config storage.Config, logger logging.Interface) (*S3Provider, error) {
	client, err := newS3Client(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	logger.WithField("provider", storage.ProviderS3).
		WithField("region", config.Region).
		WithField("endpoint", config.Endpoint).
		Info("S3 storage provider initialized")

	return newWithClient(client, config.Region, logger), nil
}

func newWithClient(client s3API, region string, logger logging.Interface) *S3Provider {
	return &S3Provider{client: client, region: region, logger: logger}
}

func newS3Client(ctx context.Context, config storage.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(&http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConns,
				IdleConnTimeout:     90 * time.Second,
			},
		}),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = !strings.Contains(config.Endpoint, "amazonaws.com")
		}
	}), nil
}

// Provider returns storage.ProviderS3.
func (p *S3Provider) Provider() storage.Provider {
	return storage.ProviderS3
}

// List issues a single ListObjectsV2 call and returns its page.
func (p *S3Provider) List(ctx context.Context, in storage.ListInput) (*storage.ListOutput, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(in.Bucket),
		Prefix: aws.String(in.Prefix),
	}
	if in.Delimiter != "" {
		input.Delimiter = aws.String(in.Delimiter)
	}
	if in.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(in.MaxKeys)
	}

	page, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, p.wrapError(err, "list", in.Bucket+"/"+in.Prefix)
	}

	out := &storage.ListOutput{
		CommonPrefixes: make([]string, 0, len(page.CommonPrefixes)),
		Contents:       make([]storage.ObjectInfo, 0, len(page.Contents)),
	}
	for _, cp := range page.CommonPrefixes {
		if cp.Prefix != nil {
			out.CommonPrefixes = append(out.CommonPrefixes, *cp.Prefix)
		}
	}
	for _, obj := range page.Contents {
		if obj.Key == nil {
			continue
		}
		out.Contents = append(out.Contents, storage.ObjectInfo{
			Key:          *obj.Key,
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return out, nil
}

// Get issues a single GetObject call.
func (p *S3Provider) Get(ctx context.Context, bucket, key string) (*storage.Object, error) {
	result, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, p.wrapError(err, "get", bucket+"/"+key)
	}

	return &storage.Object{
		Body:          result.Body,
		ContentType:   aws.ToString(result.ContentType),
		ContentLength: aws.ToInt64(result.ContentLength),
	}, nil
}

// wrapError maps S3 API error codes onto storage sentinels, keeping the SDK
// error (and its message) in the chain.
func (p *S3Provider) wrapError(err error, op, path string) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return storage.NewError(op, path, storage.ProviderS3, fmt.Errorf("%w: %w", storage.ErrNotFound, err))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return storage.NewError(op, path, storage.ProviderS3, fmt.Errorf("%w: %w", storage.ErrNotFound, err))
		case "AccessDenied", "Forbidden":
			return storage.NewError(op, path, storage.ProviderS3, fmt.Errorf("%w: %w", storage.ErrAccessDenied, err))
		}
	}

	return storage.NewError(op, path, storage.ProviderS3, err)
}
