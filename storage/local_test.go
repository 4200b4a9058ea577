package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveAndList(t *testing.T) {
	local := NewLocal(t.TempDir())
	ctx := context.Background()

	url, err := local.Save(ctx, "frames", "front.jpg", "image/jpeg", []byte("fake-jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/frames/front.jpg", url)

	files, err := local.List(ctx, "frames")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "front.jpg", files[0].Name)
	assert.False(t, files[0].IsDirectory)
	assert.Equal(t, int64(len("fake-jpeg")), files[0].Size)
	assert.Equal(t, "/uploads/frames/front.jpg", files[0].URL)
	assert.False(t, files[0].UpdatedAt.IsZero())
}

func TestLocalListMissingFolder(t *testing.T) {
	local := NewLocal(t.TempDir())
	files, err := local.List(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocalSaveStripsPathComponents(t *testing.T) {
	local := NewLocal(t.TempDir())
	url, err := local.Save(context.Background(), "frames", "../../escape.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/frames/escape.txt", url)
}

func TestLocalSanitizedFolderURLMatchesDisk(t *testing.T) {
	// A traversal folder is cleaned before hitting disk; the URL must point at
	// the same cleaned location, not echo the raw folder.
	local := NewLocal(t.TempDir())
	ctx := context.Background()

	url, err := local.Save(ctx, "../frames", "a.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/frames/a.txt", url)

	files, err := local.List(ctx, "frames")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, url, files[0].URL)
}

type failingBackend struct{}

func (failingBackend) List(ctx context.Context, folder string) ([]FileInfo, error) {
	return nil, errors.New("credentials rejected")
}

func (failingBackend) Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error) {
	return "", errors.New("credentials rejected")
}

func TestManagerFallsBackWhenCloudMissing(t *testing.T) {
	manager := NewManager(nil, NewLocal(t.TempDir()))
	ctx := context.Background()

	url, source, err := manager.Save(ctx, "docs", "a.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, "/uploads/docs/a.txt", url)

	files, source, err := manager.List(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, files, 1)
}

func TestManagerFallsBackWhenCloudFails(t *testing.T) {
	manager := NewManager(failingBackend{}, NewLocal(t.TempDir()))
	ctx := context.Background()

	_, source, err := manager.Save(ctx, "docs", "b.txt", "text/plain", []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)

	_, source, err = manager.List(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
}

type stubCloud struct {
	files []FileInfo
}

func (s stubCloud) List(ctx context.Context, folder string) ([]FileInfo, error) {
	return s.files, nil
}

func (s stubCloud) Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error) {
	return "https://storage.googleapis.com/bucket/" + folder + "/" + name, nil
}

func TestManagerPrefersCloud(t *testing.T) {
	cloud := stubCloud{files: []FileInfo{{Name: "cloud.png"}}}
	manager := NewManager(cloud, NewLocal(t.TempDir()))
	ctx := context.Background()

	files, source, err := manager.List(ctx, "frames")
	require.NoError(t, err)
	assert.Equal(t, SourceGCS, source)
	require.Len(t, files, 1)
	assert.Equal(t, "cloud.png", files[0].Name)

	url, source, err := manager.Save(ctx, "frames", "c.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, SourceGCS, source)
	assert.Equal(t, "https://storage.googleapis.com/bucket/frames/c.png", url)
}

func TestManagerEmptyCloudListingFallsThrough(t *testing.T) {
	manager := NewManager(stubCloud{}, NewLocal(t.TempDir()))
	files, source, err := manager.List(context.Background(), "frames")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	assert.Empty(t, files)
}
