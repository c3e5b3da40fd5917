package supa

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ObjectStore uploads attachments through the storage service's
// S3-compatible endpoint. Public URLs are served by the regular storage API,
// so they are derived from the project URL rather than the S3 endpoint.
type S3ObjectStore struct {
	client     *s3.Client
	projectURL string
}

type StorageConfig struct {
	ProjectURL string // https://<project>.supabase.co
	AccessKey  string
	SecretKey  string
	Region     string // "auto" unless the project says otherwise
}

func NewS3ObjectStore(ctx context.Context, cfg StorageConfig) (*S3ObjectStore, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	projectURL := strings.TrimRight(strings.TrimSpace(cfg.ProjectURL), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(projectURL + "/storage/v1/s3")
		o.UsePathStyle = true
	})
	return &S3ObjectStore{client: client, projectURL: projectURL}, nil
}

// Upload writes the object without overwriting: If-None-Match makes the
// store reject the put when the key already exists.
func (s *S3ObjectStore) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	return err
}

// PublicURL builds the dereferenceable URL for an uploaded object. The
// bucket must be public for the URL to resolve.
func (s *S3ObjectStore) PublicURL(bucket, key string) string {
	return s.projectURL + "/storage/v1/object/public/" + bucket + "/" + key
}
