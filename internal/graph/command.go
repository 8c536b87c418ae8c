package graph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/utils"
)

// DefaultCommand queries the graph of the module in the working directory
var DefaultCommand = []string{"go", "mod", "graph"}

// maxLineSize bounds a single graph line
const maxLineSize = 1024 * 1024

// Ensure CommandSource implements domain.GraphSource
var _ domain.GraphSource = (*CommandSource)(nil)

// CommandOptions configures a CommandSource
type CommandOptions struct {
	// Command is the program and its arguments; DefaultCommand when empty
	Command []string
	// Dir is the working directory, normally the one holding go.mod
	Dir string
	// Timeout bounds the command; zero means no limit
	Timeout time.Duration
	// Progress renders a spinner counting edges
	Progress       bool
	ProgressWriter io.Writer
	Logger         *utils.Logger
}

// CommandSource runs an external command that prints one edge per line
type CommandSource struct {
	command        []string
	dir            string
	timeout        time.Duration
	progress       bool
	progressWriter io.Writer
	logger         *utils.Logger
}

// NewCommandSource creates a graph source backed by an external command
func NewCommandSource(opts CommandOptions) *CommandSource {
	command := opts.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	w := opts.ProgressWriter
	if w == nil {
		w = os.Stderr
	}
	return &CommandSource{
		command:        command,
		dir:            opts.Dir,
		timeout:        opts.Timeout,
		progress:       opts.Progress,
		progressWriter: w,
		logger:         utils.OrNop(opts.Logger).WithComponent("graph"),
	}
}

// Edges runs the command and returns its non-blank output lines
func (s *CommandSource) Edges(ctx context.Context) ([]string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmdline := strings.Join(s.command, " ")
	start := time.Now()

	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	cmd.Dir = s.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, domain.NewGraphError(cmdline, "", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, domain.NewGraphError(cmdline, "", err)
	}

	s.logger.Debug().Str("command", cmdline).Str("dir", s.dir).Msg("Querying module graph")

	var add func()
	if s.progress {
		bar := utils.NewProgressBar(s.progressWriter, -1, utils.DescResolving)
		defer func() { _ = bar.Finish() }()
		add = func() { _ = bar.Add(1) }
	}

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if add != nil {
			add()
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// unblock the child before waiting on it
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return nil, domain.NewGraphError(cmdline, strings.TrimSpace(stderr.String()), err)
	}
	if scanErr != nil {
		return nil, domain.NewGraphError(cmdline, "", scanErr)
	}

	s.logger.Debug().
		Int("edges", len(lines)).
		Dur("duration", time.Since(start)).
		Msg("Module graph resolved")

	return lines, nil
}
