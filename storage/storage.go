// storage/storage.go
package storage

import (
	"context"
	"log"
	"time"
)

// Backend sources
const (
	SourceGCS   = "gcs"
	SourceLocal = "local"
)

// FileInfo describes one stored asset under a folder prefix, regardless of
// which backend holds it.
type FileInfo struct {
	Name        string    `json:"name"`
	IsDirectory bool      `json:"isDirectory"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updatedAt"`
	URL         string    `json:"url,omitempty"`
}

// Backend lists and stores binary assets under a named folder. Save takes the
// full payload so a failed cloud attempt can be replayed against disk.
type Backend interface {
	List(ctx context.Context, folder string) ([]FileInfo, error)
	Save(ctx context.Context, folder, name, contentType string, data []byte) (url string, err error)
}

// Manager prefers the cloud backend and degrades to local disk transparently.
// The two backends are mutually exclusive per request, not tiered; no
// reconciliation between them is attempted.
type Manager struct {
	cloud Backend
	local *Local
}

// NewManager builds a manager. cloud may be nil when credentials are absent.
func NewManager(cloud Backend, local *Local) *Manager {
	return &Manager{cloud: cloud, local: local}
}

// List enumerates a folder, reporting which backend served the request. An
// empty cloud listing also falls through to local, since assets predating the
// bucket live only on disk.
func (m *Manager) List(ctx context.Context, folder string) ([]FileInfo, string, error) {
	if m.cloud != nil {
		files, err := m.cloud.List(ctx, folder)
		if err == nil && len(files) > 0 {
			return files, SourceGCS, nil
		}
		if err != nil {
			log.Printf("cloud listing failed, falling back to local: %v", err)
		}
	}
	files, err := m.local.List(ctx, folder)
	if err != nil {
		return nil, "", err
	}
	return files, SourceLocal, nil
}

// Save stores an asset, reporting which backend took it.
func (m *Manager) Save(ctx context.Context, folder, name, contentType string, data []byte) (url, source string, err error) {
	if m.cloud != nil {
		url, err := m.cloud.Save(ctx, folder, name, contentType, data)
		if err == nil {
			return url, SourceGCS, nil
		}
		log.Printf("cloud upload failed, falling back to local: %v", err)
	}
	url, err = m.local.Save(ctx, folder, name, contentType, data)
	if err != nil {
		return "", "", err
	}
	return url, SourceLocal, nil
}
