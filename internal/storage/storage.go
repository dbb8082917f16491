// Package storage uploads report photos to an S3-compatible bucket and
// resolves the public URLs clients embed in synced reports.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Bucket holds every report photo. The key layout is
// {reportFolder}/{category}/{timestamp}_{random}.{ext}.
const Bucket = "reports"

// publicPrefix is the path under which the bucket is served read-only.
const publicPrefix = "/storage/v1/object/public/" + Bucket + "/"

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

// Storage wraps the MinIO client for photo uploads and cleanup.
type Storage struct {
	client        *minio.Client
	region        string
	publicBaseURL string
	log           *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client:        client,
		region:        cfg.Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		log:           log,
	}, nil
}

// EnsureBucket makes sure the photo bucket exists before first use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, Bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", Bucket, err)
		}
	}
	return nil
}

// Upload puts one photo and returns its public URL plus the object path the
// caller records for later cleanup.
func (s *Storage) Upload(ctx context.Context, folder, category string, data []byte, contentType string) (string, string, error) {
	objectPath := ObjectPath(folder, category, contentType)
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, Bucket, objectPath, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return "", "", fmt.Errorf("upload photo: %w", err)
	}
	return s.PublicURL(objectPath), objectPath, nil
}

// Remove deletes uploaded objects best-effort: a failed delete is logged and
// skipped so report deletion never blocks on storage.
func (s *Storage) Remove(ctx context.Context, objectPaths []string) {
	for _, objectPath := range objectPaths {
		if objectPath == "" {
			continue
		}
		if err := s.client.RemoveObject(ctx, Bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
			s.log.Warnw("orphaned storage object", "path", objectPath, "error", err)
		}
	}
}

// PublicURL maps an object path to the URL stored in report records.
func (s *Storage) PublicURL(objectPath string) string {
	return s.publicBaseURL + publicPrefix + objectPath
}

// ObjectPath builds a collision-resistant key for a new photo.
func ObjectPath(folder, category, contentType string) string {
	return fmt.Sprintf("%s/%s/%d_%04d%s",
		sanitizeSegment(folder), sanitizeSegment(category),
		time.Now().UnixMilli(), rand.Intn(10000), extFor(contentType))
}

// PathFromURL recovers an object path from a stored public URL. Reports
// written before object paths were recorded alongside URLs only carry the
// URL, so cleanup falls back to this.
func PathFromURL(url string) (string, bool) {
	idx := strings.Index(url, publicPrefix)
	if idx < 0 {
		return "", false
	}
	path := url[idx+len(publicPrefix):]
	if path == "" {
		return "", false
	}
	return path, true
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// sanitizeSegment keeps object keys flat and URL-safe.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
