package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type FSConfig struct {
	BaseDir   string // Directory the files are written to
	URLPrefix string // Prefix of the locator, served by the API under /uploads
}

// FS stores blobs on the local filesystem.
type FS struct {
	baseDir   string
	urlPrefix string
}

func NewFS(cfg FSConfig) (*FS, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FS{baseDir: cfg.BaseDir, urlPrefix: cfg.URLPrefix}, nil
}

// BaseDir is the root served for the locators this backend returns.
func (b *FS) BaseDir() string {
	return b.baseDir
}

func (b *FS) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.baseDir, clean), nil
}

func (b *FS) Put(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	filePath, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temp file first so a failed copy never leaves a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return joinURL(b.urlPrefix, key), nil
}

func (b *FS) Delete(_ context.Context, key string) error {
	filePath, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
