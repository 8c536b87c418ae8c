package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantmind-br/modclean/internal/config"
	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/domain/mocks"
	"github.com/quantmind-br/modclean/internal/gomod"
	"github.com/quantmind-br/modclean/internal/output"
	"github.com/quantmind-br/modclean/internal/utils"
)

const staleGoMod = `module example.com/app

go 1.21

require (
	github.com/foo/foo v1.5.0
	github.com/baz/baz v0.3.0
)

replace (
	github.com/foo/foo => example.com/foo v1.4.0
	github.com/baz/baz => example.com/baz v0.3.1
	github.com/bar/bar => example.com/bar v0.1.0
)
`

var graphEdges = []string{
	"example.com/app github.com/foo/foo@v1.5.0",
	"example.com/app github.com/baz/baz@v0.3.0",
}

// setupProject writes go.mod and go.sum into a temp dir and returns a validated config
func setupProject(t *testing.T, goMod string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.sum"), []byte(""), 0644))

	cfg := config.Default()
	cfg.Manifest.Path = filepath.Join(dir, "go.mod")
	cfg.Manifest.SumPath = ""
	cfg.Cache.Enabled = false
	cfg.Cache.Directory = filepath.Join(dir, "cache")
	require.NoError(t, cfg.Validate())
	return cfg
}

func newOrchestrator(t *testing.T, cfg *config.Config, common domain.CommonOptions, g domain.GraphSource, insp domain.RepoInspector) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(OrchestratorOptions{
		CommonOptions: common,
		Config:        cfg,
		Graph:         g,
		Inspector:     insp,
		Logger:        utils.NopLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestNewOrchestrator_RequiresConfig(t *testing.T) {
	o, err := NewOrchestrator(OrchestratorOptions{})
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestOrchestrator_Run_ReportOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGraphSource(ctrl)
	g.EXPECT().Edges(gomock.Any()).Return(graphEdges, nil)
	insp := mocks.NewMockRepoInspector(ctrl)

	cfg := setupProject(t, staleGoMod)
	o := newOrchestrator(t, cfg, domain.CommonOptions{}, g, insp)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, summary.Obsolete)
	require.NotNil(t, summary.Unreferenced)
	assert.Equal(t, 1, summary.Obsolete.Count)
	assert.Equal(t, []string{"line 11: github.com/foo/foo => example.com/foo v1.4.0"}, summary.Obsolete.Removed)
	assert.Equal(t, 1, summary.Unreferenced.Count)
	assert.Equal(t, []string{"line 13: github.com/bar/bar => example.com/bar v0.1.0"}, summary.Unreferenced.Removed)
	assert.True(t, summary.Found())
	assert.False(t, summary.Rewritten)

	data, err := os.ReadFile(cfg.Manifest.Path)
	require.NoError(t, err)
	assert.Equal(t, staleGoMod, string(data), "report-only run must not write")
}

func TestOrchestrator_Run_AutoRewrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGraphSource(ctrl)
	g.EXPECT().Edges(gomock.Any()).Return(graphEdges, nil)
	insp := mocks.NewMockRepoInspector(ctrl)
	insp.EXPECT().FileStatus(gomock.Any()).Return(domain.FileStatus{InRepo: true, Tracked: true, Modified: true}, nil)

	cfg := setupProject(t, staleGoMod)
	o := newOrchestrator(t, cfg, domain.CommonOptions{AutoRewrite: true}, g, insp)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Rewritten)
	assert.Equal(t, cfg.Manifest.Path, summary.WrittenTo)

	rewritten, err := gomod.NewLoader().Load(cfg.Manifest.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"github.com/baz/baz"}, rewritten.Replaces()[0].Names())
	assert.Equal(t, 2, rewritten.Requires()[0].Len())
}

func TestOrchestrator_Run_AutoRewriteToOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	insp := mocks.NewMockRepoInspector(ctrl)
	insp.EXPECT().FileStatus(gomock.Any()).Return(domain.FileStatus{}, nil)

	cfg := setupProject(t, staleGoMod)
	cfg.Checks.Unreferenced = false
	cfg.Manifest.Output = filepath.Join(filepath.Dir(cfg.Manifest.Path), "go.mod.new")
	o := newOrchestrator(t, cfg, domain.CommonOptions{AutoRewrite: true}, nil, insp)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary.Unreferenced)
	assert.Equal(t, cfg.Manifest.Output, summary.WrittenTo)

	original, err := os.ReadFile(cfg.Manifest.Path)
	require.NoError(t, err)
	assert.Equal(t, staleGoMod, string(original))

	m, err := gomod.NewLoader().Load(cfg.Manifest.Output)
	require.NoError(t, err)
	assert.False(t, m.Replaces()[0].Has("github.com/foo/foo"))
	assert.True(t, m.Replaces()[0].Has("github.com/bar/bar"))
}

func TestOrchestrator_Run_Clean(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGraphSource(ctrl)
	g.EXPECT().Edges(gomock.Any()).Return(graphEdges, nil)

	cfg := setupProject(t, "module example.com/app\n\ngo 1.21\n\nrequire (\n\tgithub.com/foo/foo v1.5.0\n)\n\n")
	o := newOrchestrator(t, cfg, domain.CommonOptions{}, g, mocks.NewMockRepoInspector(ctrl))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Found())
}

func TestOrchestrator_Run_SkipFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := setupProject(t, staleGoMod)

	// graph is never consulted when the unreferenced check is skipped
	o := newOrchestrator(t, cfg, domain.CommonOptions{SkipObsolete: true, SkipUnreferenced: true},
		mocks.NewMockGraphSource(ctrl), mocks.NewMockRepoInspector(ctrl))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary.Obsolete)
	assert.Nil(t, summary.Unreferenced)
	assert.False(t, summary.Found())
}

func TestOrchestrator_Run_MissingFiles(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("go.mod", func(t *testing.T) {
		cfg := setupProject(t, staleGoMod)
		require.NoError(t, os.Remove(cfg.Manifest.Path))
		o := newOrchestrator(t, cfg, domain.CommonOptions{}, mocks.NewMockGraphSource(ctrl), mocks.NewMockRepoInspector(ctrl))

		_, err := o.Run(context.Background())
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.ErrorContains(t, err, "can't find")
	})

	t.Run("go.sum", func(t *testing.T) {
		cfg := setupProject(t, staleGoMod)
		require.NoError(t, os.Remove(cfg.Manifest.SumPath))
		o := newOrchestrator(t, cfg, domain.CommonOptions{}, mocks.NewMockGraphSource(ctrl), mocks.NewMockRepoInspector(ctrl))

		_, err := o.Run(context.Background())
		var missing *domain.MissingFileError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, cfg.Manifest.SumPath, missing.Path)
	})

	t.Run("go.sum optional", func(t *testing.T) {
		cfg := setupProject(t, staleGoMod)
		cfg.Manifest.RequireSum = false
		cfg.Checks.Unreferenced = false
		require.NoError(t, os.Remove(cfg.Manifest.SumPath))
		o := newOrchestrator(t, cfg, domain.CommonOptions{}, nil, mocks.NewMockRepoInspector(ctrl))

		_, err := o.Run(context.Background())
		assert.NoError(t, err)
	})
}

func TestOrchestrator_Run_FailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		goMod string
		edges []string
		want  error
	}{
		{
			name:  "format error",
			goMod: "module example.com/app\n\nrequire (\n\tbroken\n)\n",
			want:  domain.ErrInvalidFormat,
		},
		{
			name:  "version error",
			goMod: "require (\n\ta v1.0.0\n)\n\nreplace (\n\ta => b v1\n)\n",
			want:  domain.ErrInvalidVersion,
		},
		{
			name:  "graph error",
			goMod: staleGoMod,
			edges: []string{"one-token"},
			want:  domain.ErrInvalidGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			g := mocks.NewMockGraphSource(ctrl)
			g.EXPECT().Edges(gomock.Any()).Return(tt.edges, nil).AnyTimes()

			cfg := setupProject(t, tt.goMod)
			o := newOrchestrator(t, cfg, domain.CommonOptions{AutoRewrite: true}, g, mocks.NewMockRepoInspector(ctrl))

			summary, err := o.Run(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, summary)

			data, readErr := os.ReadFile(cfg.Manifest.Path)
			require.NoError(t, readErr)
			assert.Equal(t, tt.goMod, string(data))
		})
	}
}

func TestOrchestrator_Run_UnsupportedReportWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := setupProject(t, staleGoMod)
	cfg.Report.Path = filepath.Join(t.TempDir(), "report.txt")
	o := newOrchestrator(t, cfg, domain.CommonOptions{AutoRewrite: true},
		mocks.NewMockGraphSource(ctrl), mocks.NewMockRepoInspector(ctrl))

	summary, err := o.Run(context.Background())
	assert.ErrorIs(t, err, output.ErrUnsupportedExt)
	assert.Nil(t, summary)

	data, err := os.ReadFile(cfg.Manifest.Path)
	require.NoError(t, err)
	assert.Equal(t, staleGoMod, string(data))
	assert.NoFileExists(t, cfg.Report.Path)
}

func TestOrchestrator_Run_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGraphSource(ctrl)
	g.EXPECT().Edges(gomock.Any()).Return(graphEdges, nil)

	cfg := setupProject(t, staleGoMod)
	cfg.Report.Path = filepath.Join(t.TempDir(), "out", "report.json")
	o := newOrchestrator(t, cfg, domain.CommonOptions{}, g, mocks.NewMockRepoInspector(ctrl))

	_, err := o.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module": "example.com/app"`)
	assert.Contains(t, string(data), `"check": "unreferenced"`)
}

func TestOrchestrator_Run_CommandWithCache(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	ctrl := gomock.NewController(t)

	cfg := setupProject(t, staleGoMod)
	marker := filepath.Join(t.TempDir(), "calls")
	cfg.Graph.Command = []string{"sh", "-c",
		"echo x >> " + marker + "; printf 'example.com/app github.com/foo/foo@v1.5.0\\nexample.com/app github.com/baz/baz@v0.3.0\\n'"}
	cfg.Graph.Progress = false
	cfg.Cache.Enabled = true

	for i := 0; i < 2; i++ {
		o := newOrchestrator(t, cfg, domain.CommonOptions{}, nil, mocks.NewMockRepoInspector(ctrl))
		summary, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Unreferenced.Count)
		require.NoError(t, o.Close())
	}

	calls, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(calls), "second run is served from the cache")
}

func TestSummary_Found(t *testing.T) {
	assert.False(t, (&Summary{}).Found())
	assert.False(t, (&Summary{Obsolete: &domain.CheckResult{}}).Found())
	assert.True(t, (&Summary{Unreferenced: &domain.CheckResult{Count: 2}}).Found())
}

func TestOrchestrator_Run_ProgressToStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	ctrl := gomock.NewController(t)

	cfg := setupProject(t, staleGoMod)
	cfg.Graph.Command = []string{"sh", "-c", "printf 'example.com/app github.com/foo/foo@v1.5.0\\n'"}
	cfg.Graph.Progress = true

	var stderr bytes.Buffer
	o, err := NewOrchestrator(OrchestratorOptions{
		Config:    cfg,
		Inspector: mocks.NewMockRepoInspector(ctrl),
		Logger:    utils.NopLogger(),
		Stderr:    &stderr,
	})
	require.NoError(t, err)
	defer o.Close()

	_, err = o.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stderr.String())
}
