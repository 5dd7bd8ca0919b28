package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s := loadSettings()
	assert.Equal(t, DefaultOutputFile, s.Output)
	assert.Equal(t, DefaultExcludedDirs, s.ExcludeDirs)
	assert.Equal(t, "tiktoken", s.Tokenizer.Type)
	assert.False(t, s.Gitignore)
	assert.False(t, s.Tokens)
}

func TestBuildConfig(t *testing.T) {
	dir := t.TempDir()
	langFile := filepath.Join(dir, "langs.yml")
	require.NoError(t, os.WriteFile(langFile, []byte("extensions:\n  txt: text\n"), 0o644))

	cfg := buildConfig(settings{
		Root:          dir,
		Output:        "out.md",
		ExcludeDirs:   []string{"vendor"},
		Exclude:       []string{"*.log"},
		Gitignore:     true,
		LanguagesFile: langFile,
		Detect:        true,
	}, discardLogger())

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, "out.md", cfg.OutputFile)
	assert.Equal(t, []string{"vendor"}, cfg.ExcludedDirs)
	assert.Equal(t, []string{"*.log"}, cfg.Excludes)
	assert.True(t, cfg.Gitignore)
	assert.True(t, cfg.Detect)
	tag, _ := cfg.Languages.Lookup("a.txt")
	assert.Equal(t, "text", tag)
}

func TestBuildConfig_BadLanguageFileFallsBack(t *testing.T) {
	cfg := buildConfig(settings{LanguagesFile: filepath.Join(t.TempDir(), "missing.yml")}, discardLogger())
	tag, _ := cfg.Languages.Lookup("a.py")
	assert.Equal(t, "python", tag)
}

func TestRun_WritesDocument(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "print(1)", "b.txt": "hello"})

	err := run(settings{
		Root:        root,
		Output:      "project.md",
		ExcludeDirs: DefaultExcludedDirs,
	}, discardLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "project.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "```python\nprint(1)\n```")
	assert.Contains(t, string(data), "```\nhello\n```")
}

func TestRun_WritesPDF(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "print(1)"})
	pdfPath := filepath.Join(t.TempDir(), "doc.pdf")

	require.NoError(t, run(settings{Root: root, Output: DefaultOutputFile, PDF: pdfPath}, discardLogger()))

	info, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_ReportsFatalError(t *testing.T) {
	err := run(settings{Root: filepath.Join(t.TempDir(), "nope"), Output: DefaultOutputFile}, discardLogger())
	assert.Error(t, err)
}
