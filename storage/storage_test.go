package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey(".png")
	assert.True(t, strings.HasPrefix(key, "media/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewObjectKey(".png"))
}

func TestMediaType(t *testing.T) {
	ext, contentType, err := MediaType("Holiday Photo.PNG")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, "image/png", contentType)

	_, contentType, err = MediaType("demo.MP4")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", contentType)

	for _, name := range []string{"page.html", "logo.svg", "script.js", "no-extension", "archive.png.exe"} {
		_, _, err := MediaType(name)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType, name)
	}

	assert.Contains(t, AllowedMediaTypes(), "image/jpeg")
	assert.NotContains(t, AllowedMediaTypes(), "image/svg+xml")
}

func TestFSPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFS(FSConfig{BaseDir: dir, URLPrefix: "/uploads/"})
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Put(ctx, "media/a.txt", bytes.NewBufferString("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/media/a.txt", url)

	data, err := os.ReadFile(filepath.Join(dir, "media", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "media/a.txt"))
	_, err = os.Stat(filepath.Join(dir, "media", "a.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, store.Delete(ctx, "media/a.txt"), ErrObjectNotFound)
}

func TestFSRejectsTraversal(t *testing.T) {
	store, err := NewFS(FSConfig{BaseDir: t.TempDir(), URLPrefix: "/uploads"})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.txt", bytes.NewBufferString("x"), "")
	assert.Error(t, err)
}

func TestFSCanceledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFS(FSConfig{BaseDir: dir, URLPrefix: "/uploads"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "media/b.txt", bytes.NewBufferString("hello"), "")
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "media", "b.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMemory(t *testing.T) {
	store := NewMemory("/uploads")
	ctx := context.Background()

	url, err := store.Put(ctx, "media/c.png", bytes.NewBufferString("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/media/c.png", url)

	data, contentType, ok := store.Get("media/c.png")
	require.True(t, ok)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "media/c.png"))
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Delete(ctx, "media/c.png"), ErrObjectNotFound)

	store.FailPut = errors.New("disk full")
	_, err = store.Put(ctx, "media/d.png", bytes.NewBufferString("png"), "image/png")
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 0, store.Len())
}

type fakeObjectAPI struct {
	put    []*s3.PutObjectInput
	delete []*s3.DeleteObjectInput
	err    error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = append(f.put, params)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delete = append(f.delete, params)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3Locators(t *testing.T) {
	api := &fakeObjectAPI{}
	store := NewS3WithClient(api, S3Config{Region: "eu-west-3", Bucket: "showcase"})

	url, err := store.Put(context.Background(), "media/e.jpg", bytes.NewBufferString("jpg"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://showcase.s3.eu-west-3.amazonaws.com/media/e.jpg", url)
	require.Len(t, api.put, 1)
	assert.Equal(t, "showcase", *api.put[0].Bucket)
	assert.Equal(t, "application/octet-stream", *api.put[0].ContentType)

	minio := NewS3WithClient(api, S3Config{Bucket: "showcase", Endpoint: "http://localhost:9000", UsePathStyle: true})
	url, err = minio.Put(context.Background(), "media/f.jpg", bytes.NewBufferString("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/showcase/media/f.jpg", url)

	require.NoError(t, store.Delete(context.Background(), "media/e.jpg"))
	assert.Equal(t, "media/e.jpg", *api.delete[0].Key)
}

func TestS3Failure(t *testing.T) {
	api := &fakeObjectAPI{err: errors.New("access denied")}
	store := NewS3WithClient(api, S3Config{Bucket: "showcase", PublicBaseURL: "https://cdn.example.com"})

	_, err := store.Put(context.Background(), "media/g.jpg", bytes.NewBufferString("jpg"), "")
	assert.ErrorContains(t, err, "access denied")
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), map[string]string{"STORAGE_BACKEND": "ftp"})
	assert.Error(t, err)

	store, err := New(context.Background(), map[string]string{"STORAGE_BACKEND": "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
}
