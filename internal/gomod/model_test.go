package gomod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "require", KindRequire.String())
	assert.Equal(t, "replace", KindReplace.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestEntry_String(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "override",
			entry: Entry{Name: "foo", Replace: "bar", Version: "v1.4.0", Line: 12},
			want:  "line 12: foo => bar v1.4.0",
		},
		{
			name:  "local override",
			entry: Entry{Name: "foo", Replace: "../foo", Line: 3},
			want:  "line 3: foo => ../foo",
		},
		{
			name:  "require",
			entry: Entry{Name: "foo", Version: "v1.5.0", Line: 7},
			want:  "line 7: foo v1.5.0",
		},
		{
			name:  "indirect require",
			entry: Entry{Name: "foo", Version: "v1.5.0", Indirect: true, Line: 8},
			want:  "line 8: foo v1.5.0 // indirect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}

func TestEntry_IsLocal(t *testing.T) {
	assert.True(t, (&Entry{Name: "a", Replace: "../a"}).IsLocal())
	assert.False(t, (&Entry{Name: "a", Replace: "b", Version: "v1.0.0"}).IsLocal())
	assert.False(t, (&Entry{Name: "a", Version: "v1.0.0"}).IsLocal())
}

func TestBlock_OrderAndOverwrite(t *testing.T) {
	b := NewBlock(KindRequire)
	b.Set(&Entry{Name: "c", Version: "v1.0.0"})
	b.Set(&Entry{Name: "a", Version: "v1.0.0"})
	b.Set(&Entry{Name: "b", Version: "v1.0.0"})
	b.Set(&Entry{Name: "c", Version: "v2.0.0"})

	assert.Equal(t, []string{"c", "a", "b"}, b.Names())
	assert.Equal(t, 3, b.Len())

	c, ok := b.Get("c")
	require.True(t, ok)
	assert.Equal(t, "v2.0.0", c.Version)
}

func TestBlock_Delete(t *testing.T) {
	b := NewBlock(KindReplace)
	b.Set(&Entry{Name: "a", Replace: "x", Version: "v1.0.0"})
	b.Set(&Entry{Name: "b", Replace: "y", Version: "v1.0.0"})

	assert.True(t, b.Delete("a"))
	assert.False(t, b.Delete("a"))
	assert.False(t, b.Has("a"))
	assert.True(t, b.Has("b"))
	assert.Equal(t, []string{"b"}, b.Names())
}

func TestBlock_NamesIsSnapshot(t *testing.T) {
	b := NewBlock(KindReplace)
	for _, n := range []string{"a", "b", "c"} {
		b.Set(&Entry{Name: n, Replace: n + "-fork", Version: "v1.0.0"})
	}

	var visited []string
	for _, n := range b.Names() {
		visited = append(visited, n)
		b.Delete(n)
	}

	assert.Equal(t, []string{"a", "b", "c"}, visited)
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Entries())
}

func TestManifest_BlocksOf(t *testing.T) {
	m := NewManifest()
	r1 := m.AddBlock(KindRequire)
	p1 := m.AddBlock(KindReplace)
	r2 := m.AddBlock(KindRequire)

	assert.Equal(t, []*Block{r1, r2}, m.Requires())
	assert.Equal(t, []*Block{p1}, m.Replaces())
}

func TestFlatten(t *testing.T) {
	b1 := NewBlock(KindRequire)
	b1.Set(&Entry{Name: "a", Version: "v1.0.0"})
	b1.Set(&Entry{Name: "b", Version: "v1.0.0"})
	b2 := NewBlock(KindRequire)
	b2.Set(&Entry{Name: "c", Version: "v1.0.0"})
	b2.Set(&Entry{Name: "a", Version: "v1.3.0"})

	names, byName := Flatten([]*Block{b1, b2})

	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, "v1.3.0", byName["a"].Version)
	assert.Len(t, byName, 3)
}

func TestFlatten_Empty(t *testing.T) {
	names, byName := Flatten(nil)
	assert.Empty(t, names)
	assert.Empty(t, byName)
}
