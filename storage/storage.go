// Package storage keeps uploaded media bytes. Database rows only hold the
// key and the locator returned by Put.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/student-showcase-backend/config"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore is implemented by the filesystem, S3 and memory backends.
type BlobStore interface {
	// Put stores the reader under key and returns the public locator.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrUnsupportedMediaType = errors.New("unsupported media type")

// mediaTypes lists the formats the gallery renders. The content type always
// comes from this table, never from the client.
var mediaTypes = map[string]string{
	".avif": "image/avif",
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// MediaType returns the lowercased extension of originalName and the content
// type it is stored and served with.
func MediaType(originalName string) (ext, contentType string, err error) {
	ext = strings.ToLower(filepath.Ext(originalName))
	contentType, ok := mediaTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, ext)
	}
	return ext, contentType, nil
}

// AllowedMediaTypes lists the accepted content types, sorted.
func AllowedMediaTypes() []string {
	types := make([]string, 0, len(mediaTypes))
	for _, t := range mediaTypes {
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	return types
}

// NewObjectKey returns a fresh key under media/ with the given extension,
// e.g. media/5f0c...e1.png.
func NewObjectKey(ext string) string {
	return "media/" + uuid.NewString() + ext
}

// New builds the backend named by STORAGE_BACKEND (fs, s3 or memory).
func New(ctx context.Context, c map[string]string) (BlobStore, error) {
	switch backend := config.GetString(c, "STORAGE_BACKEND", "fs"); backend {
	case "fs":
		return NewFS(FSConfig{
			BaseDir:   config.GetString(c, "UPLOAD_DIR", "./uploads"),
			URLPrefix: config.GetString(c, "UPLOAD_URL_PREFIX", "/uploads"),
		})
	case "s3":
		return NewS3(ctx, S3Config{
			Region:          config.GetString(c, "S3_REGION", "us-east-1"),
			Bucket:          config.GetString(c, "S3_BUCKET", ""),
			AccessKeyID:     config.GetString(c, "S3_ACCESS_KEY", ""),
			SecretAccessKey: config.GetString(c, "S3_SECRET_KEY", ""),
			Endpoint:        config.GetString(c, "S3_ENDPOINT", ""),
			UsePathStyle:    config.GetBool(c, "S3_USE_PATH_STYLE", false),
			PublicBaseURL:   config.GetString(c, "S3_PUBLIC_BASE_URL", ""),
		})
	case "memory":
		return NewMemory(config.GetString(c, "UPLOAD_URL_PREFIX", "/uploads")), nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q (use fs, s3 or memory)", backend)
	}
}

func joinURL(prefix, key string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(key, "/")
}
