// Package cleanup removes stale replace directives from a parsed go.mod.
//
// Two passes are provided. DropObsolete removes overrides pinning a version
// lower than the one already required. DropUnreferenced removes overrides
// for modules that no longer appear in the module graph. Both mutate the
// manifest's replace blocks in place and report what they removed.
package cleanup

import (
	"context"
	"errors"
	"fmt"

	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/gomod"
	"github.com/quantmind-br/modclean/internal/graph"
	"github.com/quantmind-br/modclean/internal/utils"
	"github.com/quantmind-br/modclean/internal/versions"
)

// ErrNoGraph is returned by DropUnreferenced when the engine has no graph source
var ErrNoGraph = errors.New("no dependency graph source configured")

// EngineOptions configures an Engine
type EngineOptions struct {
	Graph  domain.GraphSource
	Logger *utils.Logger
}

// Engine runs cleanup passes over a manifest
type Engine struct {
	graph  domain.GraphSource
	logger *utils.Logger
}

// NewEngine creates a cleanup engine
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		graph:  opts.Graph,
		logger: utils.OrNop(opts.Logger).WithComponent("cleanup"),
	}
}

// DropObsolete removes every override whose version is strictly lower than
// the version required for the same module. Overrides without a version
// point at a local directory and are never obsolete. A version that fails
// to parse aborts the pass before anything is removed.
func (e *Engine) DropObsolete(m *gomod.Manifest) (domain.CheckResult, error) {
	result := domain.CheckResult{Check: domain.CheckObsolete}

	reqNames, required := gomod.Flatten(m.Requires())
	_, overrides := gomod.Flatten(m.Replaces())

	var marked []*gomod.Entry
	for _, name := range reqNames {
		rp, ok := overrides[name]
		if !ok || rp.IsLocal() {
			continue
		}
		rq := required[name]

		lower, err := versions.Less(rp.Version, rq.Version)
		if err != nil {
			return domain.CheckResult{Check: domain.CheckObsolete}, fmt.Errorf("comparing %s versions: %w", name, err)
		}
		if lower {
			e.logger.Debug().
				Str("module", name).
				Str("required", rq.Version).
				Str("replaced", rp.Version).
				Msg("Obsolete replace")
			marked = append(marked, rp)
		}
	}

	for _, rp := range marked {
		removeFromAll(m.Replaces(), rp.Name)
		result.Add(rp.String())
	}

	return result, nil
}

// DropUnreferenced removes every override for a module path that appears
// nowhere in the dependency graph. The graph is queried once.
func (e *Engine) DropUnreferenced(ctx context.Context, m *gomod.Manifest) (domain.CheckResult, error) {
	result := domain.CheckResult{Check: domain.CheckUnreferenced}
	if e.graph == nil {
		return result, ErrNoGraph
	}

	lines, err := e.graph.Edges(ctx)
	if err != nil {
		return result, err
	}
	refs, err := graph.References(lines)
	if err != nil {
		return result, err
	}
	e.logger.Debug().Int("modules", len(refs)).Msg("Collected graph references")

	for _, blk := range m.Replaces() {
		for _, name := range blk.Names() {
			if _, ok := refs[name]; ok {
				continue
			}
			rp, _ := blk.Get(name)
			blk.Delete(name)
			e.logger.Debug().Str("module", name).Msg("Unreferenced replace")
			result.Add(rp.String())
		}
	}

	return result, nil
}

func removeFromAll(blocks []*gomod.Block, name string) {
	for _, blk := range blocks {
		blk.Delete(name)
	}
}
