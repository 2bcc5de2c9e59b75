package java

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

func baseName(path string) string {
	return filepath.Base(path)
}

// findFiles returns every file with the given extension under root, at most
// maxDepth directories deep. A missing root yields an empty result.
func findFiles(extension string, maxDepth int, root string) ([]string, error) {
	var found []string

	suffix := "." + extension

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return nil
			}

			return err
		}

		if d.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}

			if rel != "." && strings.Count(rel, string(filepath.Separator))+1 > maxDepth {
				return fs.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(d.Name(), suffix) {
			found = append(found, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return found, nil
}

// Classpath builds the javac/java class path for the given layout: build
// output first, then the lib directory, its wildcard, and any jars found
// under it. Order is deterministic and duplicates keep their first position.
func Classpath(paths Paths) (string, error) {
	entries := []string{
		paths.Build,
		paths.Lib,
		filepath.Join(paths.Lib, "*"),
	}

	jars, err := findFiles("jar", 2, paths.Lib)
	if err != nil {
		return "", err
	}

	entries = append(entries, jars...)

	return strings.Join(dedupe(entries), paths.Separator()), nil
}

// Sourcepath builds the javac source path: source, test, and root
// directories followed by every java file under the root.
func Sourcepath(paths Paths) (string, error) {
	entries := []string{
		paths.Source,
		paths.Test,
		paths.Root,
	}

	sources, err := findFiles("java", 4, paths.Root)
	if err != nil {
		return "", err
	}

	entries = append(entries, sources...)

	return strings.Join(dedupe(entries), paths.Separator()), nil
}

func dedupe(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]

	for _, entry := range entries {
		if _, ok := seen[entry]; ok {
			continue
		}

		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	return out
}
