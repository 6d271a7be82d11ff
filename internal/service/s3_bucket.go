package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service stores uploaded images (product photos, room photos) in a
// bucket and hands back the public URL.
type S3Service struct {
	BucketName string
	Client     *s3.Client
}

// NewS3Service initializes the S3 service using the default credential
// chain (env, shared config, instance role).
func NewS3Service(ctx context.Context, region, bucketName string) (*S3Service, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("s3 bucket name is not configured")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws configuration: %w", err)
	}

	return &S3Service{
		BucketName: bucketName,
		Client:     s3.NewFromConfig(cfg),
	}, nil
}

// UploadFile stores one multipart file under a collision-free key and
// returns its public URL.
func (s *S3Service) UploadFile(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (string, error) {
	defer file.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := buffer.ReadFrom(file); err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(fileHeader.Filename))

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.BucketName, key), nil
}
