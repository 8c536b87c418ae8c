package gomod

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/quantmind-br/modclean/internal/domain"
)

// Loader reads and writes go.mod files
type Loader struct {
	parser     *Parser
	serializer *Serializer
}

// NewLoader creates a loader for the default go.mod grammar
func NewLoader() *Loader {
	return NewLoaderWithGrammar(DefaultGrammar())
}

// NewLoaderWithGrammar creates a loader for a custom grammar
func NewLoaderWithGrammar(g *Grammar) *Loader {
	return &Loader{
		parser:     NewParser(g),
		serializer: NewSerializer(g),
	}
}

// Load reads and parses the manifest at path
func (l *Loader) Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, domain.NewMissingFileError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes parses a manifest from raw bytes. A leading UTF-8 byte order
// mark is dropped.
func (l *Loader) LoadFromBytes(data []byte) (*Manifest, error) {
	text, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode go.mod file: %w", err)
	}

	return l.parser.Parse(string(text))
}

// Save serializes m and overwrites the file at path
func (l *Loader) Save(path string, m *Manifest) error {
	data := l.serializer.Serialize(m)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	return nil
}
