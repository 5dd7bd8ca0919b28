package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the input string looks like a Git repository URL.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@") ||
		strings.HasPrefix(input, "ssh://")
}

// cloneGitRepo shallow-clones url into a fresh temporary directory and
// returns its path. The caller removes the directory.
func cloneGitRepo(url string, progress io.Writer, logger *slog.Logger) (string, error) {
	tempDir, err := os.MkdirTemp("", "mddoc-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logger.Info("cloning git repository", "url", url, "dir", tempDir)

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      progress,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}

	logger.Info("finished cloning", "url", url)
	return tempDir, nil
}
