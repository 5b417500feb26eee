package artifacts

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config contains minimal configuration for the artifacts bucket.
// Values fall back to the standard AWS config/credential chain.
type S3Config struct {
	Bucket string
	Prefix string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (needed by MinIO and other
	// S3-compatible stores used in CI).
	UsePathStyle bool
}

// S3Store mirrors run artifacts to an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates the store using the default AWS configuration chain
// with optional overrides from cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// NewS3StoreFromEnv returns a store when ARTIFACTS_S3_BUCKET is set, nil
// when S3 mirroring is off. A store that fails to initialize only disables
// mirroring.
func NewS3StoreFromEnv(ctx context.Context) *S3Store {
	bucket := strings.TrimSpace(os.Getenv("ARTIFACTS_S3_BUCKET"))
	if bucket == "" {
		return nil
	}

	store, err := NewS3Store(ctx, S3Config{
		Bucket:       bucket,
		Prefix:       strings.TrimSpace(os.Getenv("ARTIFACTS_S3_PREFIX")),
		Region:       strings.TrimSpace(os.Getenv("ARTIFACTS_S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("ARTIFACTS_S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("ARTIFACTS_S3_PATH_STYLE")), "true"),
	})
	if err != nil {
		log.Printf("[artifacts] ⚠️ failed to init S3 store: %v (mirroring disabled)", err)
		return nil
	}
	log.Printf("[artifacts] mirroring to s3://%s/%s", bucket, store.prefix)
	return store
}

// Upload writes one object under the configured bucket and prefix.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := s.client.PutObject(ctx, in)
	return err
}
