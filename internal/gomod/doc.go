// Package gomod parses, edits and writes go.mod files using the line grammar
// understood by modclean.
//
// # Grammar
//
// The parser recognizes the module and go directives and two kinds of
// parenthesized statement blocks:
//
//	module example.com/app
//
//	go 1.22
//
//	require (
//		// pinned for the v2 API
//		github.com/foo/bar v1.5.0
//		github.com/foo/baz v0.3.1 // indirect
//	)
//
//	replace (
//		github.com/foo/bar => github.com/fork/bar v1.4.0
//		github.com/foo/qux => ../qux
//	)
//
// Comment lines are attached to the entry that follows them. Entries inside a
// block are keyed by module path; a repeated path overwrites the earlier entry
// in place. Single-line require/replace directives, exclude and retract blocks
// and toolchain lines are not modelled: they are reported in
// Manifest.Skipped and are not reproduced by Serialize.
//
// # Usage
//
//	loader := gomod.NewLoader()
//	m, err := loader.Load("go.mod")
//	if err != nil {
//	    return err
//	}
//	// edit m.Blocks ...
//	err = loader.Save("go.mod", m)
//
// # Error Handling
//
// Parse fails with a *domain.FormatError carrying the 1-based line number
// when a line inside an open block does not match the block's entry grammar.
// Load fails with a *domain.MissingFileError when the file does not exist.
package gomod
