package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// GraphSource returns the module dependency graph as an edge list.
// Each line is a whitespace separated pair of module@version tokens.
type GraphSource interface {
	// Edges runs the graph query and returns one line per edge
	Edges(ctx context.Context) ([]string, error)
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// RepoInspector reports the version control state of a file
type RepoInspector interface {
	// FileStatus returns the worktree status of the file at path
	FileStatus(path string) (FileStatus, error)
}
