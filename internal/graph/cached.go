package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/quantmind-br/modclean/internal/cache"
	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/utils"
)

// Ensure CachedSource implements domain.GraphSource
var _ domain.GraphSource = (*CachedSource)(nil)

// CachedOptions configures a CachedSource
type CachedOptions struct {
	Source domain.GraphSource
	Cache  domain.Cache
	Key    string
	TTL    time.Duration
	Logger *utils.Logger
}

// CachedSource serves graph edges from a cache, falling back to the wrapped
// source on a miss. Cache failures never fail a query.
type CachedSource struct {
	source domain.GraphSource
	cache  domain.Cache
	key    string
	ttl    time.Duration
	logger *utils.Logger
}

// NewCachedSource wraps opts.Source with opts.Cache
func NewCachedSource(opts CachedOptions) *CachedSource {
	return &CachedSource{
		source: opts.Source,
		cache:  opts.Cache,
		key:    opts.Key,
		ttl:    opts.TTL,
		logger: utils.OrNop(opts.Logger).WithComponent("graph-cache"),
	}
}

// Edges returns the cached edges for the key, or queries and stores them
func (s *CachedSource) Edges(ctx context.Context) ([]string, error) {
	data, err := s.cache.Get(ctx, s.key)
	switch {
	case err == nil:
		lines, decodeErr := decodeEdges(data)
		if decodeErr == nil {
			s.logger.Debug().Int("edges", len(lines)).Msg("Module graph cache hit")
			return lines, nil
		}
		s.logger.Warn().Err(decodeErr).Msg("Discarding corrupt graph cache entry")
		if err := s.cache.Delete(ctx, s.key); err != nil {
			s.logger.Warn().Err(err).Msg("Graph cache delete failed")
		}
	case errors.Is(err, domain.ErrCacheMiss):
		s.logger.Debug().Msg("Module graph cache miss")
	default:
		s.logger.Warn().Err(err).Msg("Graph cache read failed")
	}

	lines, err := s.source.Edges(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeEdges(lines)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode module graph")
		return lines, nil
	}
	if err := s.cache.Set(ctx, s.key, encoded, s.ttl); err != nil {
		s.logger.Warn().Err(err).Msg("Graph cache write failed")
	}
	return lines, nil
}

// CacheKey derives the cache key for the graph of the module at goModPath.
// A missing go.sum contributes no content.
func CacheKey(goModPath, goSumPath string) (string, error) {
	goMod, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", goModPath, err)
	}
	goSum, err := os.ReadFile(goSumPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", goSumPath, err)
	}
	return cache.GraphKey(goMod, goSum), nil
}

func encodeEdges(lines []string) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll([]byte(strings.Join(lines, "\n")), nil), nil
}

func decodeEdges(data []byte) ([]string, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	text, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress zstd: %w", err)
	}
	if len(text) == 0 {
		return []string{}, nil
	}
	return strings.Split(string(text), "\n"), nil
}
