// Package s3 provides an archive store backed by an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jobdeck/internal/infra/archive"
)

// Config controls how the S3 store connects. Endpoint and static
// credentials support MinIO and other S3-compatible services.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
}

// Store stores exports as objects under an optional key prefix.
type Store struct {
	client *awss3.Client
	bucket string
	prefix string
}

// Open creates an S3 store from explicit configuration.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 archive: bucket required")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 archive: load aws config: %w", err)
	}
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: normalizePrefix(cfg.Prefix)}, nil
}

// OpenFromEnv creates an S3 store from JOBDECK_ARCHIVE_S3_* environment
// variables. JOBDECK_ARCHIVE_S3_BUCKET is required.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	cfg := Config{
		Bucket:          os.Getenv("JOBDECK_ARCHIVE_S3_BUCKET"),
		Region:          os.Getenv("JOBDECK_ARCHIVE_S3_REGION"),
		Endpoint:        os.Getenv("JOBDECK_ARCHIVE_S3_ENDPOINT"),
		AccessKeyID:     os.Getenv("JOBDECK_ARCHIVE_S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("JOBDECK_ARCHIVE_S3_SECRET_ACCESS_KEY"),
		Prefix:          os.Getenv("JOBDECK_ARCHIVE_S3_PREFIX"),
	}
	cfg.UsePathStyle = strings.EqualFold(os.Getenv("JOBDECK_ARCHIVE_S3_PATH_STYLE"), "true")
	return Open(ctx, cfg)
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (s *Store) objectKey(key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("s3 archive: key required")
	}
	return s.prefix + key, nil
}

// Driver reports the S3 driver identity.
func (s *Store) Driver() archive.Driver { return archive.DriverS3 }

func (s *Store) Put(ctx context.Context, key string, r io.Reader) (archive.Info, error) {
	objKey, err := s.objectKey(key)
	if err != nil {
		return archive.Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return archive.Info{}, fmt.Errorf("s3 archive: read: %w", err)
	}
	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return archive.Info{}, fmt.Errorf("s3 archive: put %q: %w", key, err)
	}
	head, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return archive.Info{}, fmt.Errorf("s3 archive: head %q: %w", key, err)
	}
	return infoFromHead(key, head), nil
}

func (s *Store) Get(ctx context.Context, key string) (archive.Info, io.ReadCloser, error) {
	objKey, err := s.objectKey(key)
	if err != nil {
		return archive.Info{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return archive.Info{}, nil, fmt.Errorf("s3 archive: get %q: %w", key, err)
	}
	info := archive.Info{Key: key, Size: aws.ToInt64(out.ContentLength), LastModified: aws.ToTime(out.LastModified).UTC()}
	return info, out.Body, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	objKey, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 archive: head %q: %w", key, err)
	}
	_, err = s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return false, fmt.Errorf("s3 archive: delete %q: %w", key, err)
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]archive.Info, error) {
	full := s.prefix + strings.TrimLeft(prefix, "/")
	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(full),
	})
	var infos []archive.Info
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 archive: list: %w", err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			infos = append(infos, archive.Info{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified).UTC(),
			})
		}
	}
	return infos, nil
}

func infoFromHead(key string, head *awss3.HeadObjectOutput) archive.Info {
	var modified time.Time
	if head.LastModified != nil {
		modified = head.LastModified.UTC()
	}
	return archive.Info{Key: key, Size: aws.ToInt64(head.ContentLength), LastModified: modified}
}
