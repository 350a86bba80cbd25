package minio

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/user/reel-locator/pkg/utils"
)

// CaptionArchive writes raw captions to an S3-compatible bucket.
type CaptionArchive struct {
	client *minio.Client
	bucket string
}

// NewCaptionArchive connects to the endpoint and creates the bucket if it is missing.
func NewCaptionArchive(ctx context.Context, endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*CaptionArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &CaptionArchive{client: client, bucket: bucket}, nil
}

// ObjectKey is the object name a reel's caption is stored under.
func ObjectKey(reelURL string) string {
	return "captions/" + utils.HashURL(reelURL) + ".txt"
}

func (a *CaptionArchive) Put(ctx context.Context, reelURL, caption string) error {
	_, err := a.client.PutObject(ctx, a.bucket, ObjectKey(reelURL),
		strings.NewReader(caption), int64(len(caption)),
		minio.PutObjectOptions{
			ContentType:  "text/plain; charset=utf-8",
			UserMetadata: map[string]string{"reel-url": reelURL},
		},
	)
	return err
}
