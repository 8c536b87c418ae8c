package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/quantmind-br/modclean/internal/cache"
	"github.com/quantmind-br/modclean/internal/cleanup"
	"github.com/quantmind-br/modclean/internal/config"
	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/git"
	"github.com/quantmind-br/modclean/internal/gomod"
	"github.com/quantmind-br/modclean/internal/graph"
	"github.com/quantmind-br/modclean/internal/output"
	"github.com/quantmind-br/modclean/internal/utils"
)

// Orchestrator coordinates one parse, clean and rewrite run
type Orchestrator struct {
	config    *config.Config
	opts      OrchestratorOptions
	logger    *utils.Logger
	loader    *gomod.Loader
	inspector domain.RepoInspector
	graph     domain.GraphSource
	cache     domain.Cache
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// NoCache bypasses the graph cache for this run
	NoCache bool
	// Graph replaces the configured graph command
	Graph domain.GraphSource
	// Inspector replaces the git worktree inspector
	Inspector domain.RepoInspector
	// Logger replaces the logger built from Config.Logging
	Logger *utils.Logger
	// Stderr receives the graph progress spinner; os.Stderr when nil
	Stderr io.Writer
}

// Summary is the outcome of a run. A nil check result means the check was skipped.
type Summary struct {
	Manifest     *gomod.Manifest
	File         string
	Obsolete     *domain.CheckResult
	Unreferenced *domain.CheckResult
	Rewritten    bool
	WrittenTo    string
}

// Found returns true if any check reported stale entries
func (s *Summary) Found() bool {
	return (s.Obsolete != nil && s.Obsolete.Found()) ||
		(s.Unreferenced != nil && s.Unreferenced.Found())
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	inspector := opts.Inspector
	if inspector == nil {
		inspector = git.NewClient()
	}

	return &Orchestrator{
		config:    cfg,
		opts:      opts,
		logger:    logger,
		loader:    gomod.NewLoader(),
		inspector: inspector,
		graph:     opts.Graph,
	}, nil
}

// Run executes the configured checks against the manifest. Nothing is
// written unless every step succeeds.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	startTime := time.Now()
	cfg := o.config
	path := cfg.Manifest.Path
	log := o.logger.WithFile(path)

	if cfg.Report.Path != "" {
		if err := output.CheckPath(cfg.Report.Path); err != nil {
			return nil, err
		}
	}
	if !utils.FileExists(path) {
		return nil, domain.NewMissingFileError(path)
	}
	if cfg.Manifest.RequireSum && !utils.FileExists(cfg.Manifest.SumPath) {
		return nil, domain.NewMissingFileError(cfg.Manifest.SumPath)
	}

	log.Debug().Msg("Parsing go.mod file")
	m, err := o.loader.Load(path)
	if err != nil {
		return nil, err
	}
	for _, s := range m.Skipped {
		log.Warn().
			Int("line", s.Line).
			Str("text", s.Text).
			Msg("Unsupported line will not be preserved on rewrite")
	}

	summary := &Summary{Manifest: m, File: path}
	report := output.NewReportCollector(output.CollectorOptions{
		Path:        cfg.Report.Path,
		File:        path,
		AutoRewrite: o.opts.AutoRewrite,
	})
	report.SetModule(m.Module)

	runObsolete := cfg.Checks.Obsolete && !o.opts.SkipObsolete
	runUnreferenced := cfg.Checks.Unreferenced && !o.opts.SkipUnreferenced

	engineOpts := cleanup.EngineOptions{Logger: o.logger}
	if runUnreferenced {
		engineOpts.Graph = o.graphSource()
	}
	engine := cleanup.NewEngine(engineOpts)

	if runObsolete {
		log.Debug().Msg("Checking for obsolete replace statements")
		result, err := engine.DropObsolete(m)
		if err != nil {
			return nil, err
		}
		summary.Obsolete = &result
		report.Add(result)
	}

	if runUnreferenced {
		log.Debug().Msg("Checking for unreferenced replace statements")
		result, err := engine.DropUnreferenced(ctx, m)
		if err != nil {
			return nil, err
		}
		summary.Unreferenced = &result
		report.Add(result)
	}

	if o.opts.AutoRewrite {
		dest := cfg.Manifest.Output
		if dest == "" {
			dest = path
		}
		o.warnIfDirty(dest)

		if err := o.loader.Save(dest, m); err != nil {
			return nil, err
		}
		summary.Rewritten = true
		summary.WrittenTo = dest
		report.SetRewritten(true)
		log.Info().Str("output", dest).Msg("Rewrote go.mod file")
	}

	if err := report.Flush(); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	if report.IsEnabled() {
		log.Info().
			Str("report", cfg.Report.Path).
			Int("checks", report.Count()).
			Int("removed", report.Report().Total()).
			Msg("Wrote report")
	}

	log.Debug().
		Dur("duration", time.Since(startTime)).
		Bool("found", summary.Found()).
		Msg("Run completed")

	return summary, nil
}

// graphSource returns the injected graph source, or the configured command
// wrapped in the graph cache when caching is enabled
func (o *Orchestrator) graphSource() domain.GraphSource {
	if o.graph != nil {
		return o.graph
	}
	cfg := o.config

	var src domain.GraphSource = graph.NewCommandSource(graph.CommandOptions{
		Command:        cfg.Graph.Command,
		Dir:            filepath.Dir(cfg.Manifest.Path),
		Timeout:        cfg.Graph.Timeout,
		Progress:       cfg.Graph.Progress && !o.opts.Verbose,
		ProgressWriter: o.opts.Stderr,
		Logger:         o.logger,
	})

	if cfg.Cache.Enabled && !o.opts.NoCache {
		src = o.withCache(src)
	}

	o.graph = src
	return src
}

func (o *Orchestrator) withCache(src domain.GraphSource) domain.GraphSource {
	cfg := o.config

	key, err := graph.CacheKey(cfg.Manifest.Path, cfg.Manifest.SumPath)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Graph cache disabled")
		return src
	}

	opts := cache.DefaultOptions()
	opts.Directory = cfg.Cache.Directory
	c, err := cache.NewBadgerCache(opts)
	if err != nil {
		o.logger.Warn().Err(err).Str("directory", cfg.Cache.Directory).Msg("Graph cache disabled")
		return src
	}
	o.cache = c

	return graph.NewCachedSource(graph.CachedOptions{
		Source: src,
		Cache:  c,
		Key:    key,
		TTL:    cfg.Cache.TTL,
		Logger: o.logger,
	})
}

func (o *Orchestrator) warnIfDirty(path string) {
	st, err := o.inspector.FileStatus(path)
	if err != nil {
		o.logger.Debug().Err(err).Msg("Could not inspect git status")
		return
	}
	if st.Dirty() {
		o.logger.Warn().Str("file", path).Msg("Rewriting a file with uncommitted changes")
	}
}

// Close releases resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.cache == nil {
		return nil
	}
	err := o.cache.Close()
	o.cache = nil
	return err
}
