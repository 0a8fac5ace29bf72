package filetype

import "regexp"

type languagePatterns struct {
	name     string
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Order breaks ties between equally scored languages.
var detectors = []languagePatterns{
	{"go", compile(`(?m)^package\s+\w+\s*$`, `\bfunc\s+(\(\w+\s+\*?\w+\)\s*)?\w+\s*\(`, `:=`, `\bimport\s+\(`)},
	{"python", compile(`\bdef\s+\w+\s*\(`, `(?m)^\s*import\s+\w+\s*$`, `\bfrom\s+[\w.]+\s+import\b`, `(?m)^\s*class\s+\w+.*:\s*$`, `\bself\.`)},
	{"javascript", compile(`\bfunction\s+\w+\s*\(`, `\bconst\s+\w+\s*=`, `\blet\s+\w+\s*=`, `=>`, `\brequire\(`)},
	{"java", compile(`\bpublic\s+class\s+\w+`, `\bprivate\s+\w+\s+\w+;`, `\bpublic\s+static\s+void\b`, `System\.out\.print`)},
	{"cpp", compile(`#include\s*<\w+(\.h)?>`, `\busing\s+namespace\b`, `\bint\s+main\s*\(`, `std::`)},
	{"html", compile(`(?i)<!doctype\s+html`, `(?i)<(html|head|body|div|span|script|p)\b[^>]*>`, `(?i)</(html|head|body|div|span|script|p)>`)},
	{"css", compile(`(?m)^\s*[.#]?[a-zA-Z][\w-]*\s*\{`, `(?m)^\s*[a-z-]+\s*:\s*[^;]+;\s*$`)},
	{"sql", compile(`(?i)\bselect\s+.+\s+from\b`, `(?i)\binsert\s+into\b`, `(?i)\bupdate\s+\w+\s+set\b`, `(?i)\bcreate\s+table\b`)},
	{"shell", compile(`^#!/bin/(ba|z)?sh`, `\becho\s+['"$]`, `(?m)^\s*export\s+\w+=`)},
}

// DetectLanguage guesses the language of a text block from its content.
// It returns Unknown when no pattern matches.
func DetectLanguage(content string) string {
	best := Unknown
	bestScore := 0
	for _, d := range detectors {
		score := 0
		for _, re := range d.patterns {
			if re.MatchString(content) {
				score++
			}
		}
		if score > bestScore {
			best = d.name
			bestScore = score
		}
	}
	return best
}
