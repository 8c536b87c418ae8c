package output

import (
	"errors"
	"time"

	"github.com/quantmind-br/modclean/internal/domain"
)

// ErrUnsupportedExt indicates a report path with an unknown extension
var ErrUnsupportedExt = errors.New("unsupported report file extension")

// Report is the machine readable summary of one run
type Report struct {
	Module      string               `json:"module" yaml:"module"`
	File        string               `json:"file" yaml:"file"`
	AutoRewrite bool                 `json:"auto_rewrite" yaml:"auto_rewrite"`
	Rewritten   bool                 `json:"rewritten" yaml:"rewritten"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Checks      []domain.CheckResult `json:"checks" yaml:"checks"`
}

// Total returns the number of entries removed across all checks
func (r *Report) Total() int {
	total := 0
	for _, c := range r.Checks {
		total += c.Count
	}
	return total
}
