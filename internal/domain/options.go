package domain

// CommonOptions contains shared options for a cleanup run.
type CommonOptions struct {
	Verbose          bool
	AutoRewrite      bool
	SkipObsolete     bool
	SkipUnreferenced bool
}
