package domain

// Check names
const (
	CheckObsolete     = "obsolete"
	CheckUnreferenced = "unreferenced"
)

// CheckResult is the outcome of one cleanup pass
type CheckResult struct {
	Check   string   `json:"check" yaml:"check"`
	Count   int      `json:"count" yaml:"count"`
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Found returns true if the pass removed at least one entry
func (r CheckResult) Found() bool {
	return r.Count > 0
}

// Add records a removed entry descriptor
func (r *CheckResult) Add(descriptor string) {
	r.Count++
	r.Removed = append(r.Removed, descriptor)
}

// FileStatus describes a file's state in its enclosing git worktree
type FileStatus struct {
	InRepo   bool
	Tracked  bool
	Modified bool
}

// Dirty returns true if the file has changes that a rewrite would clobber
func (s FileStatus) Dirty() bool {
	return s.InRepo && s.Tracked && s.Modified
}
