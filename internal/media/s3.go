package media

import (
	"fmt"
	"path"
	"strings"
	"time"

	"blog-platform/config"
	apperrors "blog-platform/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// Store hands out presigned URLs for article and post media (covers, audio).
// Clients upload directly to the bucket; the services never stream file
// bytes themselves.
type Store struct {
	bucketName  string
	svc         *s3.S3
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

func NewStore(cfg *config.Config) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Store{
		bucketName:  cfg.BucketName,
		svc:         s3.New(sess),
		uploadTTL:   time.Duration(cfg.UploadURLTimeLimit) * time.Minute,
		downloadTTL: time.Duration(cfg.DownloadURLTimeLimit) * time.Minute,
	}, nil
}

// UploadTarget is the presigned PUT handed to the client.
type UploadTarget struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey"`
}

// BuildObjectKey namespaces media under its owning collection and resource,
// with a random prefix so re-uploads never collide.
func BuildObjectKey(collection, resourceID, fileName string) (string, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return "", apperrors.BadRequest("invalid file name")
	}
	return path.Join(collection, resourceID, uuid.New().String()+"-"+fileName), nil
}

// BuildStoredObjectKey rebuilds the key of an already uploaded object from
// its file segment. Unlike BuildObjectKey it adds no random prefix.
func BuildStoredObjectKey(collection, resourceID, fileName string) (string, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return "", apperrors.BadRequest("invalid file name")
	}
	return path.Join(collection, resourceID, fileName), nil
}

// PresignUpload returns a presigned PUT URL for the given object key.
func (s *Store) PresignUpload(objectKey string) (*UploadTarget, error) {
	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})

	url, err := req.Presign(s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &UploadTarget{URL: url, ObjectKey: objectKey}, nil
}

// PresignDownload returns a presigned GET URL for the given object key.
func (s *Store) PresignDownload(objectKey string) (string, error) {
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})

	url, err := req.Presign(s.downloadTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}

	return url, nil
}
