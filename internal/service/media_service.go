package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// assetPrefix marks notes_pdf values that are storage paths rather than
// absolute URLs.
const assetPrefix = "assets/"

// MediaService handles direct-to-S3 course asset upload and playback URLs.
type MediaService interface {
	// CreateUploadURL returns a presigned PUT URL and the storage path the
	// client should submit back as the course's notesPdf.
	CreateUploadURL(ctx context.Context, courseID, filename string) (uploadURL, storagePath string, err error)
	// ResolveAssetURL swaps a storage path for a time-limited presigned GET
	// URL. Absolute URLs pass through unchanged.
	ResolveAssetURL(ctx context.Context, notesPDF string) (string, error)
}

type mediaService struct {
	presignClient *s3.PresignClient
	bucketName    string
	mediaLogger   zerolog.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(s3Client *s3.Client, bucketName string, logger zerolog.Logger) MediaService {
	return &mediaService{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		mediaLogger:   logger.With().Str("service", "MediaService").Logger(),
	}
}

func (s *mediaService) CreateUploadURL(ctx context.Context, courseID, filename string) (string, string, error) {
	storagePath := fmt.Sprintf("%s%s/%s", assetPrefix, courseID, path.Base(filename))

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storagePath),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.mediaLogger.Error().Err(err).Str("storage_path", storagePath).Msg("Failed to generate presigned PUT URL")
		return "", "", fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}

	return request.URL, storagePath, nil
}

func (s *mediaService) ResolveAssetURL(ctx context.Context, notesPDF string) (string, error) {
	if !strings.HasPrefix(notesPDF, assetPrefix) {
		return notesPDF, nil
	}

	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(notesPDF),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.mediaLogger.Error().Err(err).Str("storage_path", notesPDF).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return resp.URL, nil
}
