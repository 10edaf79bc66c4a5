package lsp

import (
	"os"
	"path/filepath"
)

// FindWorkspaceRoot walks upward from the directory containing path
// looking for any of markers (a file or directory name), returning the
// first directory that contains one. Falls back to the
// starting directory if no marker is found anywhere above it.
func FindWorkspaceRoot(path string, markers []string) string {
	dir := filepath.Dir(path)
	start := dir
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
