package storageinfra

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3API is the subset of *s3.Client the storage needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Storage keeps each key as one JSON object under a prefix. S3 offers no
// change feed, so other contexts only see writes on their next load.
type S3Storage struct {
	storage.NopWatcher

	client S3API
	bucket string
	prefix string
	origin string
}

var _ storage.Facility = (*S3Storage)(nil)

func NewS3Storage(client S3API, bucket, prefix string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		origin: uuid.NewString(),
	}
}

func (s *S3Storage) Origin() string { return s.origin }

func (s *S3Storage) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *S3Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, storage.ErrReadFailed(key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, storage.ErrReadFailed(key, err)
	}
	return string(body), true, nil
}

func (s *S3Storage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"origin": s.origin},
	})
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	return nil
}

func (s *S3Storage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	return nil
}

func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Storage) Close() error { return nil }
