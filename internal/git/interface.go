package git

import (
	"github.com/quantmind-br/modclean/internal/domain"
)

// Client defines the interface for Git operations
type Client interface {
	domain.RepoInspector
}

// Ensure RealClient implements Client
var _ Client = (*RealClient)(nil)
