// Package graph reads the module dependency graph produced by `go mod graph`.
package graph

import (
	"fmt"
	"strings"

	"golang.org/x/mod/module"

	"github.com/quantmind-br/modclean/internal/domain"
)

// VersionSeparator splits a graph node into module path and version
const VersionSeparator = "@"

// ParseEdge splits one graph line into its two endpoints.
// The main module is printed without a version and yields an empty Version.
func ParseEdge(line string) (from, to module.Version, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return module.Version{}, module.Version{}, fmt.Errorf("%w: %q", domain.ErrInvalidGraph, line)
	}
	return parseNode(fields[0]), parseNode(fields[1]), nil
}

func parseNode(token string) module.Version {
	path, version, _ := strings.Cut(token, VersionSeparator)
	return module.Version{Path: path, Version: version}
}

// References collects every module path that appears at either end of an edge.
// Blank lines are ignored.
func References(lines []string) (map[string]struct{}, error) {
	refs := make(map[string]struct{})
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		from, to, err := ParseEdge(line)
		if err != nil {
			return nil, err
		}
		refs[from.Path] = struct{}{}
		refs[to.Path] = struct{}{}
	}
	return refs, nil
}
