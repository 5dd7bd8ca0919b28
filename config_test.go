package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubExecutable(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := executablePath
	executablePath = fn
	t.Cleanup(func() { executablePath = orig })
}

func TestResolveConfig_UsesExecutableDirectory(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "mddoc")
	require.NoError(t, os.WriteFile(exe, []byte("bin"), 0o755))
	stubExecutable(t, func() (string, error) { return exe, nil })

	cfg, err := ResolveConfig(Config{}, discardLogger())
	require.NoError(t, err)

	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, realDir, cfg.Root)
	assert.Equal(t, "mddoc", cfg.SelfName)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Equal(t, DefaultExcludedDirs, cfg.ExcludedDirs)
	assert.NotNil(t, cfg.Languages)
	assert.Equal(t, filepath.Join(realDir, DefaultOutputFile), cfg.OutputPath())
}

func TestResolveConfig_FallsBackToWorkingDirectory(t *testing.T) {
	stubExecutable(t, func() (string, error) { return "", errors.New("no executable") })
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg, err := ResolveConfig(Config{}, logger)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.Root)
	assert.Empty(t, cfg.SelfName)
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestResolveConfig_ExplicitValuesWin(t *testing.T) {
	stubExecutable(t, func() (string, error) { return "/opt/tools/mddoc", nil })
	root := t.TempDir()

	cfg, err := ResolveConfig(Config{
		Root:         root,
		OutputFile:   "out.md",
		ExcludedDirs: []string{"vendor"},
	}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, "mddoc", cfg.SelfName)
	assert.Equal(t, []string{"vendor"}, cfg.ExcludedDirs)
	assert.Equal(t, filepath.Join(root, "out.md"), cfg.OutputPath())
}

func TestResolveConfig_DoesNotTouchFilesystem(t *testing.T) {
	root := t.TempDir()
	stubExecutable(t, func() (string, error) { return filepath.Join(root, "mddoc"), nil })

	cfg, err := ResolveConfig(Config{}, discardLogger())
	require.NoError(t, err)

	_, statErr := os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfig_OutputDir(t *testing.T) {
	cfg := Config{Root: "/project", OutputFile: "doc.md", OutputDir: "/elsewhere"}
	assert.Equal(t, filepath.Join("/elsewhere", "doc.md"), cfg.OutputPath())
}
