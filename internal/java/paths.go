package java

import (
	"path/filepath"
	"runtime"
)

// Paths holds the workspace directory layout for a Java project. Every
// field defaults to a fixed name under the root but can be overridden.
type Paths struct {
	// Root is the project workspace root.
	Root string
	// Source holds production sources, default "src".
	Source string
	// Build is the class-file output directory, default "target".
	Build string
	// Test holds student tests, default "test".
	Test string
	// Lib holds downloaded jars, default "lib".
	Lib string
	// Meta is the tool's metadata directory, default ".umm".
	Meta string
	// Report is where graders write tool reports, default
	// ".umm/test_reports".
	Report string
}

// NewPaths returns the standard layout rooted at root. Empty root means the
// current directory.
func NewPaths(root string) Paths {
	if root == "" {
		root = "."
	}

	meta := filepath.Join(root, ".umm")

	return Paths{
		Root:   root,
		Source: filepath.Join(root, "src"),
		Build:  filepath.Join(root, "target"),
		Test:   filepath.Join(root, "test"),
		Lib:    filepath.Join(root, "lib"),
		Meta:   meta,
		Report: filepath.Join(meta, "test_reports"),
	}
}

// WithLib returns a copy of p with a different lib directory.
func (p Paths) WithLib(lib string) Paths {
	p.Lib = lib
	return p
}

// Separator returns the platform specific path-list separator for javac
// classpath arguments.
func (p Paths) Separator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}

	return ":"
}
