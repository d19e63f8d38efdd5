// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension resolves a path into the sorted list of catalog files
// it denotes. A file path is returned as-is when it carries one of the
// extensions; a directory is searched recursively. Extensions include the
// leading dot.
func FindFilesByExtension(path string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if hasAnyExtension(info.Name(), extensions) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasAnyExtension(d.Name(), extensions) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Walk order is already lexical per directory, but sorting the full
	// paths keeps the merge order stable across multiple roots.
	sort.Strings(files)
	return files, nil
}

func hasAnyExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
