package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"sounddeck/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client and makes sure the clip bucket exists.
func InitMinio() error {
	cfg := config.Load()

	log.Printf("Connecting to MinIO at %s (bucket %s)...", cfg.MinioEndpoint, cfg.MinioBucket)

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		log.Printf("Created bucket %s", cfg.MinioBucket)
	}

	minioClient = client
	return nil
}

// GetMinioClient returns the global MinIO client, or nil before InitMinio.
func GetMinioClient() *minio.Client {
	return minioClient
}

// UploadClip stores raw clip audio under the given object path.
func UploadClip(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	cfg := config.Load()
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := minioClient.PutObject(ctx, cfg.MinioBucket, objectPath, r, size, opts); err != nil {
		return fmt.Errorf("failed to upload clip object %s: %w", objectPath, err)
	}
	return nil
}

// FetchClip opens the stored audio for the given object path.
// The caller owns the returned reader.
func FetchClip(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}
	cfg := config.Load()
	obj, err := minioClient.GetObject(ctx, cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clip object %s: %w", objectPath, err)
	}
	return obj, nil
}

// RemoveClip deletes the stored audio for the given object path.
func RemoveClip(ctx context.Context, objectPath string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	cfg := config.Load()
	if err := minioClient.RemoveObject(ctx, cfg.MinioBucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove clip object %s: %w", objectPath, err)
	}
	return nil
}
