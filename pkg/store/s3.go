package store

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3TranscriptStore reads parsed transcript JSON records from an S3 bucket
type S3TranscriptStore struct {
	logger *logrus.Logger
	client *s3.Client
	bucket string
}

// NewS3TranscriptStore creates a transcript store backed by S3
func NewS3TranscriptStore(logger *logrus.Logger, awsCfg aws.Config, bucket string) *S3TranscriptStore {
	return &S3TranscriptStore{
		logger: logger,
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}
}

// ListTranscripts lists up to maxKeys object keys under the prefix
func (s *S3TranscriptStore) ListTranscripts(ctx context.Context, prefix string, maxKeys int32) ([]string, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list s3 objects in %s: %w", s.bucket, err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"prefix": prefix,
		"count":  len(keys),
	}).Debug("Listed transcript objects")

	return keys, nil
}

// GetTranscript fetches and reads one object body
func (s *S3TranscriptStore) GetTranscript(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", key, err)
	}

	return data, nil
}
