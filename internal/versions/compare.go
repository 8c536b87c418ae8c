// Package versions compares module versions under Semantic Versioning 2.0.0
// precedence rules.
//
// A single leading lowercase "v" is stripped before parsing, so "v1.2.3" and
// "1.2.3" are equal. Parsing is strict: partial versions such as "v1.2" are
// rejected with a *domain.VersionParseError. Build metadata is ignored for
// precedence, and Go pseudo-versions compare as pre-releases of their base.
package versions

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/quantmind-br/modclean/internal/domain"
)

// Prefix is the optional version prefix used by Go modules
const Prefix = "v"

// Compare compares v1 and v2.
// The result is negative if v1 < v2, zero if v1 == v2 and positive if v1 > v2.
func Compare(v1, v2 string) (int, error) {
	a, err := Parse(v1)
	if err != nil {
		return 0, err
	}
	b, err := Parse(v2)
	if err != nil {
		return 0, err
	}
	return a.Compare(b), nil
}

// Less reports whether v1 has lower precedence than v2
func Less(v1, v2 string) (bool, error) {
	c, err := Compare(v1, v2)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// Parse strips the version prefix and parses a strict semantic version
func Parse(v string) (*semver.Version, error) {
	parsed, err := semver.StrictNewVersion(strings.TrimPrefix(v, Prefix))
	if err != nil {
		return nil, domain.NewVersionParseError(v, err)
	}
	return parsed, nil
}
