package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const logoBucket = "tenant-logos"

// LogoService stores tenant logos in object storage.
type LogoService interface {
	UploadLogo(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	GetPresignedURL(tenantID uuid.UUID, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type logoService struct {
	client *minio.Client
}

func NewLogoService(endpoint, accessKey, secretKey string, useSSL bool) (LogoService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &logoService{client: client}, nil
}

func logoObjectName(tenantID uuid.UUID) string {
	return fmt.Sprintf("logos/%s", tenantID.String())
}

func (s *logoService) UploadLogo(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := logoObjectName(tenantID)
	_, err := s.client.PutObject(ctx, logoBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *logoService) GetPresignedURL(tenantID uuid.UUID, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(context.Background(), logoBucket, logoObjectName(tenantID), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *logoService) EnsureBucketExists(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, logoBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, logoBucket, minio.MakeBucketOptions{})
	}
	return nil
}
