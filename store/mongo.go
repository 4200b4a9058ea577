// store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotConfigured is returned by DB when the connection string is absent.
// The message doubles as the remediation hint surfaced to the caller.
var ErrNotConfigured = errors.New("MONGO_URI is not set in environment variables. Please check your .env file.")

// Config holds the database connection settings
type Config struct {
	URI      string
	Database string
}

// ConfigFromEnv reads the database settings from the environment
func ConfigFromEnv() Config {
	cfg := Config{
		URI:      os.Getenv("MONGO_URI"),
		Database: os.Getenv("DATABASE_NAME"),
	}
	if cfg.Database == "" {
		cfg.Database = "gaMultilens"
	}
	return cfg
}

// Store owns the process-lifetime MongoDB connection. It is built once at
// startup and injected into every controller; a missing or failed
// configuration is carried inside so that only database-backed endpoints
// degrade, not the whole process.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	configErr error
}

// New connects to MongoDB. When MONGO_URI is unset the returned Store serves
// ErrNotConfigured from DB instead of failing startup. Reachability is probed
// with a short ping but only logged; the driver reconnects on demand.
func New(ctx context.Context, cfg Config) *Store {
	if cfg.URI == "" {
		return &Store{configErr: ErrNotConfigured}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return &Store{configErr: fmt.Errorf("database connection failed: %v", err)}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Printf("MongoDB ping failed (will retry on demand): %v", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}
}

// NewWithDatabase wraps an already connected database handle.
func NewWithDatabase(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

// DB returns the database handle, or the configuration error recorded at
// startup.
func (s *Store) DB() (*mongo.Database, error) {
	if s.configErr != nil {
		return nil, s.configErr
	}
	return s.db, nil
}

// Collection returns a collection handle by name.
func (s *Store) Collection(name string) (*mongo.Collection, error) {
	db, err := s.DB()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Close disconnects the client on shutdown.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
