// storage/gcs.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ErrNoCredentials signals that the cloud backend cannot be constructed; the
// manager then runs local-only.
var ErrNoCredentials = errors.New("GCS credentials not configured")

// GCSConfig holds the service-account credentials and target bucket.
type GCSConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	Bucket      string
}

// GCSConfigFromEnv reads the object-store settings from the environment.
func GCSConfigFromEnv() GCSConfig {
	cfg := GCSConfig{
		ProjectID:   os.Getenv("GCP_PROJECT_ID"),
		ClientEmail: os.Getenv("GCP_CLIENT_EMAIL"),
		PrivateKey:  os.Getenv("GCP_PRIVATE_KEY"),
		Bucket:      os.Getenv("GCP_BUCKET_NAME"),
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "myapp-image-bucket-001"
	}
	return cfg
}

// GCS stores assets in a Google Cloud Storage bucket as public objects.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS builds the cloud backend. Returns ErrNoCredentials when the client
// email is unset so callers degrade to local storage instead of failing.
func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.ClientEmail == "" {
		return nil, ErrNoCredentials
	}

	// Env vars flatten the key's newlines; restore them before handing the
	// credentials to the client.
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
	})
	if err != nil {
		return nil, err
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, err
	}
	return &GCS{client: client, bucket: cfg.Bucket}, nil
}

func objectPrefix(folder string) string {
	if folder == "" || folder == "general" {
		return ""
	}
	if strings.HasSuffix(folder, "/") {
		return folder
	}
	return folder + "/"
}

// List enumerates the bucket under the folder prefix, one level deep.
func (g *GCS) List(ctx context.Context, folder string) ([]FileInfo, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{
		Prefix:    objectPrefix(folder),
		Delimiter: "/",
	})

	var files []FileInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		if attrs.Prefix != "" {
			// Synthetic directory entry produced by the delimiter.
			files = append(files, FileInfo{
				Name:        baseName(attrs.Prefix),
				IsDirectory: true,
			})
			continue
		}
		name := baseName(attrs.Name)
		if name == "" {
			// The folder placeholder object itself.
			continue
		}
		files = append(files, FileInfo{
			Name:      name,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
			URL:       fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, attrs.Name),
		})
	}
	return files, nil
}

// Save uploads an asset as a publicly readable object.
func (g *GCS) Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error) {
	object := objectPrefix(folder) + name
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

func baseName(object string) string {
	parts := strings.Split(strings.TrimSuffix(object, "/"), "/")
	return parts[len(parts)-1]
}
