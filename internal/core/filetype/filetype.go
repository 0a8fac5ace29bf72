package filetype

import (
	"path"
	"strings"
)

const Unknown = "unknown"

type Family string

const (
	FamilyCode    Family = "code"
	FamilyMarkup  Family = "markup"
	FamilyStyle   Family = "style"
	FamilyData    Family = "data"
	FamilyConfig  Family = "config"
	FamilyDocs    Family = "docs"
	FamilyScript  Family = "script"
	FamilyUnknown Family = ""
)

var byExtension = map[string]string{
	"py":       "python",
	"pyw":      "python",
	"js":       "javascript",
	"mjs":      "javascript",
	"cjs":      "javascript",
	"jsx":      "javascript",
	"ts":       "typescript",
	"tsx":      "typescript",
	"java":     "java",
	"kt":       "kotlin",
	"kts":      "kotlin",
	"cpp":      "cpp",
	"cc":       "cpp",
	"cxx":      "cpp",
	"hpp":      "cpp",
	"c":        "c",
	"h":        "c",
	"cs":       "csharp",
	"go":       "go",
	"rs":       "rust",
	"php":      "php",
	"rb":       "ruby",
	"swift":    "swift",
	"scala":    "scala",
	"r":        "r",
	"html":     "html",
	"htm":      "html",
	"xml":      "xml",
	"xsl":      "xml",
	"svg":      "xml",
	"css":      "css",
	"scss":     "css",
	"sass":     "css",
	"less":     "css",
	"json":     "json",
	"yaml":     "yaml",
	"yml":      "yaml",
	"csv":      "csv",
	"sql":      "sql",
	"md":       "markdown",
	"markdown": "markdown",
	"rst":      "markdown",
	"txt":      "text",
	"ini":      "config",
	"cfg":      "config",
	"conf":     "config",
	"config":   "config",
	"toml":     "toml",
	"env":      "env",
	"sh":       "shell",
	"bash":     "shell",
	"zsh":      "shell",
	"ps1":      "powershell",
	"bat":      "batch",
	"cmd":      "batch",
}

var byFilename = map[string]string{
	"makefile":         "makefile",
	"dockerfile":       "dockerfile",
	"gemfile":          "ruby",
	"rakefile":         "ruby",
	"go.mod":           "gomod",
	"go.sum":           "text",
	"requirements.txt": "text",
	".gitignore":       "config",
	".env":             "env",
	"license":          "text",
	"readme":           "markdown",
}

var families = map[string]Family{
	"python":     FamilyCode,
	"javascript": FamilyCode,
	"typescript": FamilyCode,
	"java":       FamilyCode,
	"kotlin":     FamilyCode,
	"cpp":        FamilyCode,
	"c":          FamilyCode,
	"csharp":     FamilyCode,
	"go":         FamilyCode,
	"rust":       FamilyCode,
	"php":        FamilyCode,
	"ruby":       FamilyCode,
	"swift":      FamilyCode,
	"scala":      FamilyCode,
	"r":          FamilyCode,
	"html":       FamilyMarkup,
	"xml":        FamilyMarkup,
	"css":        FamilyStyle,
	"json":       FamilyData,
	"yaml":       FamilyData,
	"csv":        FamilyData,
	"sql":        FamilyData,
	"markdown":   FamilyDocs,
	"text":       FamilyDocs,
	"config":     FamilyConfig,
	"toml":       FamilyConfig,
	"env":        FamilyConfig,
	"makefile":   FamilyConfig,
	"dockerfile": FamilyConfig,
	"gomod":      FamilyConfig,
	"shell":      FamilyScript,
	"powershell": FamilyScript,
	"batch":      FamilyScript,
}

var aliases = map[string]string{
	"golang":          "go",
	"c++":             "cpp",
	"c#":              "csharp",
	"bash":            "shell",
	"sh":              "shell",
	"zsh":             "shell",
	"plaintext":       "text",
	"plain":           "text",
	"node":            "javascript",
	"typescriptreact": "typescript",
}

// FromPath infers a file type from a file name or path.
func FromPath(p string) string {
	base := strings.ToLower(path.Base(p))
	if t, ok := byFilename[base]; ok {
		return t
	}
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return Unknown
	}
	if t, ok := byExtension[ext]; ok {
		return t
	}
	return Unknown
}

// Canonical maps a declared type (a language name, an extension or a
// family word) to the name used in this package. Unrecognized values are
// returned lowercased.
func Canonical(declared string) string {
	d := strings.ToLower(strings.TrimSpace(declared))
	d = strings.TrimPrefix(d, ".")
	if d == "" {
		return ""
	}
	if a, ok := aliases[d]; ok {
		return a
	}
	if _, ok := families[d]; ok {
		return d
	}
	if t, ok := byExtension[d]; ok {
		return t
	}
	return d
}

// FamilyOf reports the broad family of a type, which may itself be a family word.
func FamilyOf(t string) Family {
	if f, ok := families[t]; ok {
		return f
	}
	switch Family(t) {
	case FamilyCode, FamilyMarkup, FamilyStyle, FamilyData, FamilyConfig, FamilyDocs, FamilyScript:
		return Family(t)
	}
	return FamilyUnknown
}

// IsFamily reports whether t names a family rather than a concrete type.
func IsFamily(t string) bool {
	_, concrete := families[t]
	return !concrete && FamilyOf(t) != FamilyUnknown
}
