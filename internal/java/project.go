package java

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// Project is the ordered set of source files discovered under one workspace
// root. Any index i refers to the same file in every collection.
type Project struct {
	files []*SourceFile
	names []string
	paths Paths
}

// Discover walks the workspace for Java sources, parses them all
// concurrently, and downloads missing tool jars when test-framework imports
// are present. A single unparseable file fails discovery entirely.
func Discover(ctx context.Context, root string, runner process.Runner) (*Project, error) {
	paths := NewPaths(root)

	found, err := findFiles("java", 15, paths.Root)
	if err != nil {
		return nil, fmt.Errorf("could not find java files: %w", err)
	}

	files := make([]*SourceFile, len(found))

	g, gctx := errgroup.WithContext(ctx)

	for i, path := range found {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file, err := NewSourceFile(path, paths, runner)
			if err != nil {
				return err
			}

			files[i] = file

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.ProperName()
	}

	project := &Project{
		files: files,
		names: names,
		paths: paths,
	}

	if err := project.downloadLibrariesIfNeeded(ctx); err != nil {
		return nil, err
	}

	return project, nil
}

// Identify resolves a partial or fully qualified name to a file. Strategies
// in priority order: proper name, file name, file name without extension,
// declared name, path. Callers reference files by whichever convention their
// configuration used, so all of them must resolve.
func (p *Project) Identify(name string) (*SourceFile, error) {
	for i, n := range p.names {
		if n == name {
			return p.files[i], nil
		}
	}

	for _, f := range p.files {
		if f.FileName() == name {
			return f, nil
		}
	}

	for _, f := range p.files {
		if strings.TrimSuffix(f.FileName(), ".java") == name {
			return f, nil
		}
	}

	for _, f := range p.files {
		if f.SimpleName() == name {
			return f, nil
		}
	}

	for _, f := range p.files {
		if f.Path() == name {
			return f, nil
		}
	}

	if matches := fuzzy.Find(name, p.names); len(matches) > 0 {
		return nil, fmt.Errorf(
			"could not find %s in the project, did you mean %s?", name, matches[0].Str,
		)
	}

	return nil, fmt.Errorf("could not find %s in the project", name)
}

// Contains reports whether the project has a file matching name under any
// Identify strategy.
func (p *Project) Contains(name string) bool {
	_, err := p.Identify(name)
	return err == nil
}

// Files returns the project's source files.
func (p *Project) Files() []*SourceFile {
	return p.files
}

// Names returns the proper names of the project's files, index-aligned with
// Files.
func (p *Project) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)

	return out
}

// Paths returns the workspace layout for this project.
func (p *Project) Paths() Paths {
	return p.paths
}

// Info renders a JSON summary of the project.
func (p *Project) Info() (string, error) {
	type fileInfo struct {
		Path        string   `json:"path"`
		FileName    string   `json:"file_name"`
		PackageName string   `json:"package_name,omitempty"`
		Name        string   `json:"name"`
		ProperName  string   `json:"proper_name"`
		Kind        string   `json:"kind"`
		TestMethods []string `json:"test_methods,omitempty"`
	}

	infos := make([]fileInfo, len(p.files))
	for i, f := range p.files {
		infos[i] = fileInfo{
			Path:        f.Path(),
			FileName:    f.FileName(),
			PackageName: f.PackageName(),
			Name:        f.SimpleName(),
			ProperName:  f.ProperName(),
			Kind:        f.Kind().String(),
			TestMethods: f.TestMethods(),
		}
	}

	out, err := json.MarshalIndent(struct {
		Files []fileInfo `json:"files"`
		Root  string     `json:"root"`
	}{Files: infos, Root: p.paths.Root}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render project info: %w", err)
	}

	return string(out), nil
}

// Describe concatenates per-file structural summaries for the feedback
// layer, skipping instructor-provided hidden files.
func (p *Project) Describe() string {
	var b strings.Builder

	b.WriteString(
		"> What follows is a summary of the student's submission's files, their fields and " +
			"methods generated via treesitter queries.\n\n",
	)

	for _, f := range p.files {
		if strings.Contains(f.ProperName(), "Hidden") {
			continue
		}

		b.WriteString(f.Description())
		b.WriteString("\n\n")
	}

	return b.String()
}
