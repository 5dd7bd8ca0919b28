package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"gopkg.in/yaml.v3"
)

// defaultLanguageHints maps a lowercase extension (without the dot) to a
// Markdown fence tag. An explicit empty tag marks a known binary format.
var defaultLanguageHints = map[string]string{
	// Java ecosystem
	"java":       "java",
	"kt":         "kotlin",
	"kts":        "kotlin",
	"scala":      "scala",
	"groovy":     "groovy",
	"gradle":     "groovy",
	"xml":        "xml",
	"properties": "properties",
	"jsp":        "jsp",
	"tag":        "jsp",
	"tld":        "xml",
	"wsdl":       "xml",
	"xsd":        "xml",
	"ftl":        "ftl",
	"vm":         "velocity",
	"mf":         "text",
	"feature":    "gherkin",
	"jks":        "",
	"class":      "",
	"jar":        "",
	"war":        "",
	"ear":        "",

	// Python ecosystem
	"py":      "python",
	"pyw":     "python",
	"pyc":     "",
	"pyd":     "",
	"pyo":     "",
	"pyx":     "cython",
	"pxd":     "cython",
	"ini":     "ini",
	"cfg":     "ini",
	"toml":    "toml",
	"rst":     "rst",
	"tpl":     "html",
	"mako":    "mako",
	"jinja":   "jinja",
	"jinja2":  "jinja",
	"env":     "bash",
	"pipfile": "toml",

	// Systems
	"go":    "go",
	"rs":    "rust",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"swift": "swift",

	// Web
	"html":   "html",
	"htm":    "html",
	"css":    "css",
	"scss":   "scss",
	"sass":   "sass",
	"less":   "less",
	"js":     "javascript",
	"jsx":    "jsx",
	"ts":     "typescript",
	"tsx":    "tsx",
	"json":   "json",
	"yaml":   "yaml",
	"yml":    "yaml",
	"vue":    "vue",
	"svelte": "svelte",

	// Shell
	"sh":   "bash",
	"bash": "bash",
	"zsh":  "zsh",
	"ksh":  "ksh",
	"csh":  "csh",
	"fish": "fish",
	"ps1":  "powershell",
	"bat":  "batch",
	"cmd":  "batch",

	// Data
	"sql":   "sql",
	"ddl":   "sql",
	"dml":   "sql",
	"csv":   "csv",
	"tsv":   "tsv",
	"jsonl": "json",

	// Docs
	"md":       "markdown",
	"markdown": "markdown",
	"log":      "log",
	"tex":      "latex",
	"bib":      "bibtex",
	"adoc":     "asciidoc",
	"asciidoc": "asciidoc",

	// Build & config
	"dockerfile":    "dockerfile",
	"dockerignore":  "text",
	"makefile":      "makefile",
	"cmake":         "cmake",
	"gitignore":     "gitignore",
	"gitattributes": "text",
	"gitmodules":    "ini",
	"editorconfig":  "ini",
	"nginx":         "nginx",
	"conf":          "nginx",
	"httpd":         "apache",
	"htaccess":      "apache",
	"tf":            "terraform",
	"hcl":           "terraform",

	// Other
	"plantuml": "plantuml",
	"puml":     "plantuml",
	"drawio":   "xml",
	"svg":      "xml",
	"vsdx":     "",
	"pdf":      "",
	"png":      "",
	"jpg":      "",
	"jpeg":     "",
	"gif":      "",
	"bmp":      "",
	"ico":      "",
	"zip":      "",
	"gz":       "",
	"tar":      "",
	"rar":      "",
}

// LanguageTable resolves fence tags for file names. It is immutable once built.
type LanguageTable struct {
	hints map[string]string
}

// NewLanguageTable returns the default table with overrides layered on top.
// Override keys are normalized to lowercase without a leading dot.
func NewLanguageTable(overrides map[string]string) *LanguageTable {
	hints := make(map[string]string, len(defaultLanguageHints)+len(overrides))
	for ext, tag := range defaultLanguageHints {
		hints[ext] = tag
	}
	for ext, tag := range overrides {
		hints[strings.ToLower(strings.TrimPrefix(ext, "."))] = tag
	}
	return &LanguageTable{hints: hints}
}

// Lookup returns the fence tag for a file name and whether the extension is
// known to the table at all.
func (lt *LanguageTable) Lookup(name string) (string, bool) {
	if lt == nil {
		return "", false
	}
	ext := extension(name)
	if ext == "" {
		return "", false
	}
	tag, ok := lt.hints[ext]
	return tag, ok
}

// Len reports how many extensions the table knows.
func (lt *LanguageTable) Len() int {
	if lt == nil {
		return 0
	}
	return len(lt.hints)
}

// extension returns the lowercase extension of name without the dot.
// Leading dots do not start an extension, so ".env" has none.
func extension(name string) string {
	name = filepath.Base(name)
	i := strings.LastIndex(name, ".")
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// detectLanguage guesses a fence tag from the file name and content.
// Binary content never gets a tag.
func detectLanguage(name string, content []byte) string {
	if enry.IsBinary(content) {
		return ""
	}
	lang := enry.GetLanguage(filepath.Base(name), content)
	if lang == "" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
}

// languageFile is the on-disk format of a languages.yml override file.
type languageFile struct {
	Extensions map[string]string `yaml:"extensions"`
}

// LoadLanguageOverrides reads extension overrides from path. With an empty
// path it looks for languages.yml in the standard config locations and
// returns nil without error when none exists.
func LoadLanguageOverrides(path string) (map[string]string, error) {
	if path == "" {
		var candidates []string
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".config", "mddoc", "languages.yml"))
		}
		candidates = append(candidates, "languages.yml")
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("language file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("error reading language file %s: %w", path, err)
	}

	var lf languageFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("error parsing language file %s: %w", path, err)
	}
	return lf.Extensions, nil
}
