package cache

import (
	"time"

	"github.com/quantmind-br/modclean/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// DefaultDirectory is the cache location relative to the home directory
const DefaultDirectory = ".modclean/cache"

// Options contains cache configuration options
type Options struct {
	Directory  string
	InMemory   bool
	Logger     bool
	GCInterval time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		GCInterval: 5 * time.Minute,
	}
}
