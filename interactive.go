package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// pickCandidates lists root and every directory beneath it that the
// documenter would descend into.
func pickCandidates(root string, excludedDirs []string) ([]string, error) {
	excluded := make(map[string]bool, len(excludedDirs))
	for _, d := range excludedDirs {
		excluded[d] = true
	}

	candidates := []string{"."}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if excluded[d.Name()] {
			return fs.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		candidates = append(candidates, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for directories: %w", err)
	}
	return candidates, nil
}

// runInteractivePicker lets the user choose which directory under root to
// document. An empty result with a nil error means the user aborted.
func runInteractivePicker(root string, excludedDirs []string) (string, error) {
	candidates, err := pickCandidates(root, excludedDirs)
	if err != nil {
		return "", err
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory to document. Enter to confirm, Esc to abort."
			}
			dir := filepath.Join(root, filepath.FromSlash(candidates[i]))
			entries, readErr := os.ReadDir(dir)
			if readErr != nil {
				return fmt.Sprintf("Path: %s\nError reading directory: %v", dir, readErr)
			}
			return fmt.Sprintf("Path: %s\nEntries: %d", dir, len(entries))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}

	return filepath.Join(root, filepath.FromSlash(candidates[idx])), nil
}
