// internal/memories/upload.go

package memories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const maxPhotoBytes = 10 << 20 // 10 MB

var ErrUnsupportedPhotoType = errors.New("unsupported photo type")

// photoExtensions maps accepted content types to the stored extension.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// UploadService stores scrapbook photos
type UploadService interface {
	UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	DeletePhoto(ctx context.Context, url string) error
}

func photoKey(userID int64, contentType string) (string, error) {
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedPhotoType
	}
	return fmt.Sprintf("memories/%d/%s%s", userID, uuid.New().String(), ext), nil
}

// LocalUploadService stores photos on the local filesystem. Used in
// development; production uses S3.
type LocalUploadService struct {
	uploadDir string
	baseURL   string
}

func NewLocalUploadService(uploadDir, baseURL string) UploadService {
	return &LocalUploadService{
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *LocalUploadService) UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxPhotoBytes {
		return "", fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
	}

	key, err := photoKey(userID, header.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(s.uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxPhotoBytes)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *LocalUploadService) DeletePhoto(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s.baseURL+"/")

	filePath := filepath.Join(s.uploadDir, filepath.FromSlash(key))
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// S3UploadService stores photos in an S3 bucket
type S3UploadService struct {
	s3Client *s3.S3
	bucket   string
	baseURL  string
}

func NewS3UploadService(bucket, region string) (UploadService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3UploadService{
		s3Client: s3.New(sess),
		bucket:   bucket,
		baseURL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region),
	}, nil
}

func (s *S3UploadService) UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxPhotoBytes {
		return "", fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
	}

	contentType := header.Header.Get("Content-Type")
	key, err := photoKey(userID, contentType)
	if err != nil {
		return "", err
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *S3UploadService) DeletePhoto(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s.baseURL+"/")

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// MockUploadService is a mock implementation for testing
type MockUploadService struct {
	Uploaded []string
	Deleted  []string
}

func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	key, err := photoKey(userID, header.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	url := "https://cdn.test/" + key
	m.Uploaded = append(m.Uploaded, url)
	return url, nil
}

func (m *MockUploadService) DeletePhoto(ctx context.Context, url string) error {
	m.Deleted = append(m.Deleted, url)
	return nil
}
