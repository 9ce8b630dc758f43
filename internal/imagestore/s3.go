// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures an S3-compatible image store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL objects are reachable at. When empty the
	// URL is built from the endpoint and bucket.
	PublicURL string
	Folder    string
}

// S3 stores images in an S3-compatible bucket.
type S3 struct {
	client *minio.Client
	cfg    S3Config
}

// NewS3 connects to the object store and creates the bucket when missing.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !ok {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &S3{client: client, cfg: cfg}, nil
}

// Upload puts img into the bucket under a fresh random key.
func (s *S3) Upload(ctx context.Context, img *Image) (Object, error) {
	key := path.Join(s.cfg.Folder, uuid.NewString()+img.Ext)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.ContentType})
	if err != nil {
		return Object{}, fmt.Errorf("uploading image: %w", err)
	}

	return Object{URL: objectURL(s.cfg, key), PublicID: key}, nil
}

// Delete removes the object for publicID. S3 treats missing keys as deleted.
func (s *S3) Delete(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

// List returns every object below the image folder.
func (s *S3) List(ctx context.Context) ([]StoredObject, error) {
	// Cancelling stops minio's listing goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []StoredObject
	for info := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    s.cfg.Folder + "/",
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("listing images: %w", info.Err)
		}
		objects = append(objects, StoredObject{PublicID: info.Key, Modified: info.LastModified})
	}
	return objects, nil
}

// objectURL returns the public URL of key.
func objectURL(cfg S3Config, key string) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/") + "/" + key
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, cfg.Endpoint, cfg.Bucket, key)
}
