package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/modclean/internal/utils"
)

// Writer encodes reports to disk. The format follows the file extension.
type Writer struct{}

// NewWriter creates a new report writer
func NewWriter() *Writer {
	return &Writer{}
}

// CheckPath returns ErrUnsupportedExt unless path ends in a report extension.
// Callers use it to reject a report destination before doing any work.
func CheckPath(path string) error {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".yaml", ".yml", ".json":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
}

// Marshal encodes r for the given file extension
func Marshal(r *Report, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	case ".json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
}

// Write saves r at path, creating parent directories
func (w *Writer) Write(path string, r *Report) error {
	data, err := Marshal(r, filepath.Ext(path))
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(path); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
