package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service hands out presigned URLs so clients upload chat images/audio and
// avatars straight to the bucket; only the resulting URL rides on a message.
type S3Service struct {
	Client *s3.Client
	Bucket string
}

// NewS3Service builds the S3 client from the ambient AWS config.
func NewS3Service(ctx context.Context, region, bucket string) (*S3Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Service{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// GenerateUploadURL returns a presigned PUT URL plus the object key the
// caller should reference afterwards.
func (s *S3Service) GenerateUploadURL(ctx context.Context, folder, fileName, fileType string) (string, string, error) {
	key := folder + "/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL returns a presigned GET URL for an uploaded object.
func (s *S3Service) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
