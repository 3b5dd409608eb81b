package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
)

func TestNewS3StorageDisabledWithoutBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"}, logger.NewNop())
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPresignedDownloadURL(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "plan-sheets",
	}, logger.NewNop())
	require.NoError(t, err)

	// Presigning is local; no server is contacted.
	url, err := fs.GeneratePresignedDownloadURL(context.Background(), "plans/p-1/sheet.txt", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/plan-sheets/plans/p-1/sheet.txt")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
