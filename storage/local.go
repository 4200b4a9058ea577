// storage/local.go
package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
)

// Local stores assets on disk under a root directory, serving them at
// /uploads/<folder>/<name>.
type Local struct {
	root string
}

// NewLocal builds a local backend rooted at dir, defaulting to
// public/uploads.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = filepath.Join("public", "uploads")
	}
	return &Local{root: dir}
}

// Root returns the directory assets live under, for static serving.
func (l *Local) Root() string {
	return l.root
}

// List enumerates a folder from filesystem metadata, synthesizing the same
// result shape the cloud backend returns. A missing folder is an empty
// listing, not an error.
func (l *Local) List(ctx context.Context, folder string) ([]FileInfo, error) {
	rel := filepath.Clean("/" + folder)
	dir := filepath.Join(l.root, rel)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		file := FileInfo{
			Name:        entry.Name(),
			IsDirectory: entry.IsDir(),
			Size:        info.Size(),
			UpdatedAt:   info.ModTime(),
		}
		if !entry.IsDir() {
			file.URL = path.Join("/uploads", filepath.ToSlash(rel), entry.Name())
		}
		files = append(files, file)
	}
	return files, nil
}

// Save writes an asset under the folder, creating the directory tree as
// needed.
func (l *Local) Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error) {
	rel := filepath.Clean("/" + folder)
	dir := filepath.Join(l.root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return path.Join("/uploads", filepath.ToSlash(rel), filepath.Base(name)), nil
}
