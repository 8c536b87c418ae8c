package graph

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/modclean/internal/domain"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestNewCommandSource_Defaults(t *testing.T) {
	s := NewCommandSource(CommandOptions{})

	assert.Equal(t, DefaultCommand, s.command)
	assert.Zero(t, s.timeout)
	assert.NotNil(t, s.progressWriter)
	assert.NotNil(t, s.logger)
}

func TestCommandSource_Edges(t *testing.T) {
	requireShell(t)

	s := NewCommandSource(CommandOptions{
		Command: []string{"sh", "-c", "printf 'app a@v1.0.0\\n\\na@v1.0.0 b@v2.0.0\\n'"},
		Dir:     t.TempDir(),
	})

	lines, err := s.Edges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app a@v1.0.0", "a@v1.0.0 b@v2.0.0"}, lines)
}

func TestCommandSource_RunsInDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	s := NewCommandSource(CommandOptions{
		Command: []string{"sh", "-c", "echo \"$(basename \"$PWD\") x@v1.0.0\""},
		Dir:     dir,
	})

	lines, err := s.Edges(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	from, _, err := ParseEdge(lines[0])
	require.NoError(t, err)
	assert.NotEmpty(t, from.Path)
}

func TestCommandSource_Progress(t *testing.T) {
	requireShell(t)
	var buf bytes.Buffer

	s := NewCommandSource(CommandOptions{
		Command:        []string{"sh", "-c", "echo 'a b@v1.0.0'"},
		Progress:       true,
		ProgressWriter: &buf,
	})

	lines, err := s.Edges(context.Background())
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.NotEmpty(t, buf.String())
}

func TestCommandSource_Failure(t *testing.T) {
	requireShell(t)

	s := NewCommandSource(CommandOptions{
		Command: []string{"sh", "-c", "echo 'go: updates to go.mod needed' >&2; exit 1"},
	})

	lines, err := s.Edges(context.Background())

	assert.Nil(t, lines)
	assert.ErrorIs(t, err, domain.ErrGraphFailed)

	var graphErr *domain.GraphError
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, "go: updates to go.mod needed", graphErr.Stderr)
	assert.Contains(t, graphErr.Command, "sh -c")
}

func TestCommandSource_NotFound(t *testing.T) {
	s := NewCommandSource(CommandOptions{
		Command: []string{"modclean-no-such-binary"},
	})

	_, err := s.Edges(context.Background())
	assert.ErrorIs(t, err, domain.ErrGraphFailed)
}

func TestCommandSource_Timeout(t *testing.T) {
	requireShell(t)

	s := NewCommandSource(CommandOptions{
		Command: []string{"sleep", "5"},
		Timeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := s.Edges(context.Background())

	assert.ErrorIs(t, err, domain.ErrGraphFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}
