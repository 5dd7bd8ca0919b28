package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultOutputFile is the name of the generated document when none is configured.
const DefaultOutputFile = "documents.md"

// DefaultExcludedDirs are directory names that are never descended into.
var DefaultExcludedDirs = []string{".git", ".vscode", "target", "build", "__pycache__", "node_modules", ".idea"}

// Config is the fully resolved input of a Documenter.
type Config struct {
	Root         string   // Directory being documented
	OutputFile   string   // Output file name
	OutputDir    string   // Directory the output is written to, defaults to Root
	SelfName     string   // Name of the running program, never documented
	ExcludedDirs []string // Directory names skipped structurally
	Excludes     []string // Extra file glob patterns
	Gitignore    bool     // Honour <root>/.gitignore
	Detect       bool     // Content-based language detection for unmapped extensions
	Languages    *LanguageTable
	Tokenizer    Tokenizer // Optional; nil disables token counting
}

// OutputPath returns <output-dir>/<output-file>, where the output dir is the
// root unless set otherwise.
func (c Config) OutputPath() string {
	dir := c.OutputDir
	if dir == "" {
		dir = c.Root
	}
	return filepath.Join(dir, c.OutputFile)
}

// executablePath is swapped out by tests.
var executablePath = os.Executable

// ResolveConfig fills in the root directory and the program's own name.
// An explicit root wins; otherwise the directory of the running executable is
// used, falling back to the working directory with a warning when it cannot be
// determined.
func ResolveConfig(cfg Config, logger *slog.Logger) (Config, error) {
	if cfg.OutputFile == "" {
		cfg.OutputFile = DefaultOutputFile
	}
	if cfg.ExcludedDirs == nil {
		cfg.ExcludedDirs = append([]string(nil), DefaultExcludedDirs...)
	}
	if cfg.Languages == nil {
		cfg.Languages = NewLanguageTable(nil)
	}

	exe, exeErr := executablePath()
	if exeErr == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		if cfg.SelfName == "" {
			cfg.SelfName = filepath.Base(exe)
		}
	}

	if cfg.Root == "" {
		if exeErr != nil {
			logger.Warn("could not determine the program location, using the working directory", "error", exeErr)
			wd, err := os.Getwd()
			if err != nil {
				return cfg, fmt.Errorf("failed to resolve working directory: %w", err)
			}
			cfg.Root = wd
		} else {
			cfg.Root = filepath.Dir(exe)
		}
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return cfg, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	logger.Info("project root resolved", "root", cfg.Root)
	logger.Info("output file", "path", cfg.OutputPath())
	logger.Info("reserved files will not be documented", "program", cfg.SelfName, "output", cfg.OutputFile)
	return cfg, nil
}
