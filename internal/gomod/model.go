package gomod

import (
	"fmt"
	"strings"
)

// Kind identifies the statement block type
type Kind int

const (
	// KindRequire is a require ( ... ) block
	KindRequire Kind = iota
	// KindReplace is a replace ( ... ) block
	KindReplace
)

// String returns the keyword that opens a block of this kind
func (k Kind) String() string {
	switch k {
	case KindRequire:
		return KeywordRequire
	case KindReplace:
		return KeywordReplace
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one pinned dependency or override line
type Entry struct {
	Name     string
	Version  string
	Replace  string
	Comments []string
	Indirect bool
	Line     int
}

// IsOverride returns true for replace entries
func (e *Entry) IsOverride() bool {
	return e.Replace != ""
}

// IsLocal returns true for overrides that point at a directory and carry no version
func (e *Entry) IsLocal() bool {
	return e.IsOverride() && e.Version == ""
}

// String renders the entry as a diagnostic descriptor
func (e *Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %s ", e.Line, e.Name)
	if e.Replace != "" {
		fmt.Fprintf(&b, "%s %s", KeywordArrow, e.Replace)
		if e.Version != "" {
			b.WriteString(" ")
		}
	}
	b.WriteString(e.Version)
	if e.Indirect {
		fmt.Fprintf(&b, " %s", MarkerIndirect)
	}
	return b.String()
}

// Block is a statement block holding entries in insertion order
type Block struct {
	Kind    Kind
	names   []string
	entries map[string]*Entry
}

// NewBlock creates an empty block of the given kind
func NewBlock(kind Kind) *Block {
	return &Block{
		Kind:    kind,
		entries: make(map[string]*Entry),
	}
}

// Set adds an entry keyed by its name. An existing entry with the same name
// is overwritten and keeps its position.
func (b *Block) Set(e *Entry) {
	if _, exists := b.entries[e.Name]; !exists {
		b.names = append(b.names, e.Name)
	}
	b.entries[e.Name] = e
}

// Get returns the entry for name
func (b *Block) Get(name string) (*Entry, bool) {
	e, ok := b.entries[name]
	return e, ok
}

// Has checks if the block contains name
func (b *Block) Has(name string) bool {
	_, ok := b.entries[name]
	return ok
}

// Delete removes name from the block. It returns false if name was absent.
func (b *Block) Delete(name string) bool {
	if _, ok := b.entries[name]; !ok {
		return false
	}
	delete(b.entries, name)
	for i, n := range b.names {
		if n == name {
			b.names = append(b.names[:i], b.names[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries
func (b *Block) Len() int {
	return len(b.names)
}

// Names returns a copy of the entry names in order.
// Callers may delete from the block while ranging over the result.
func (b *Block) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

// Entries returns the entries in order
func (b *Block) Entries() []*Entry {
	entries := make([]*Entry, 0, len(b.names))
	for _, name := range b.names {
		entries = append(entries, b.entries[name])
	}
	return entries
}

// SkippedLine is a non-blank line outside any block that matched no grammar
type SkippedLine struct {
	Line int
	Text string
}

// Manifest is the parsed go.mod file
type Manifest struct {
	Module  string
	Go      string
	Blocks  []*Block
	Skipped []SkippedLine
}

// NewManifest creates an empty manifest
func NewManifest() *Manifest {
	return &Manifest{}
}

// AddBlock appends a new block of the given kind and returns it
func (m *Manifest) AddBlock(kind Kind) *Block {
	b := NewBlock(kind)
	m.Blocks = append(m.Blocks, b)
	return b
}

// BlocksOf returns the blocks of the given kind in textual order
func (m *Manifest) BlocksOf(kind Kind) []*Block {
	var blocks []*Block
	for _, b := range m.Blocks {
		if b.Kind == kind {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Requires returns the require blocks
func (m *Manifest) Requires() []*Block {
	return m.BlocksOf(KindRequire)
}

// Replaces returns the replace blocks
func (m *Manifest) Replaces() []*Block {
	return m.BlocksOf(KindReplace)
}

// Flatten merges the entries of blocks into one name-keyed view. Entries of
// later blocks win on name collision; names keep first-seen order.
func Flatten(blocks []*Block) ([]string, map[string]*Entry) {
	var names []string
	byName := make(map[string]*Entry)
	for _, b := range blocks {
		for _, e := range b.Entries() {
			if _, seen := byName[e.Name]; !seen {
				names = append(names, e.Name)
			}
			byName[e.Name] = e
		}
	}
	return names, byName
}
