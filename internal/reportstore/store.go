// Package reportstore persists the engine's projected documents as S3
// objects — spec.md's output is "anything that consumes [the engine's]
// output is a collaborator"; this is that collaborator for durable storage.
package reportstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/openlend/reportengine/internal/common"
	"github.com/openlend/reportengine/internal/config"
	"github.com/openlend/reportengine/internal/projection"
)

// s3API is the slice of the S3 client this package exercises, narrowed so
// tests can substitute a fake instead of talking to AWS.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store puts and gets projected reports as objects in a single S3 bucket,
// under the key prefix "reports/{reportID}/{objectID}.json".
type Store struct {
	client s3API
	bucket string
}

// Open loads the default AWS credential chain (environment, shared config,
// EC2/ECS role) and returns a Store bound to the configured bucket/region.
func Open(ctx context.Context, cfg *config.S3Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("reportstore: load AWS config: %w", err)
	}
	return &Store{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// Put stores doc, JSON-encoded, under a freshly generated object ID and
// returns the key it was written to.
func (s *Store) Put(ctx context.Context, reportID string, doc projection.Document) (objectKey string, err error) {
	body, err := doc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("reportstore: marshal document: %w", err)
	}

	key := objectKeyFor(reportID, uuid.NewString())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("reportstore: put object: %w", err)
	}
	return key, nil
}

// Get fetches a previously stored report by its reportID and objectID.
func (s *Store) Get(ctx context.Context, reportID, objectID string) (projection.Document, error) {
	key := objectKeyFor(reportID, objectID)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return projection.Document{}, common.NewErrNotFound("report " + reportID + "/" + objectID)
		}
		return projection.Document{}, fmt.Errorf("reportstore: get object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return projection.Document{}, fmt.Errorf("reportstore: read object body: %w", err)
	}
	return projection.DecodeJSON(body)
}

// Location returns the s3:// URI of a stored object, for echoing back to
// API callers.
func (s *Store) Location(objectKey string) string {
	return "s3://" + s.bucket + "/" + objectKey
}

func objectKeyFor(reportID, objectID string) string {
	return fmt.Sprintf("reports/%s/%s.json", reportID, objectID)
}
