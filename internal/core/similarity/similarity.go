package similarity

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Metric scores two normalized strings. Implementations are symmetric,
// return values in [0,1], and return 1.0 for identical input.
type Metric func(a, b string) float64

const (
	MetricLevenshtein = "levenshtein"
	MetricJaccard     = "jaccard"
	MetricCosine      = "cosine"
)

var metrics = map[string]Metric{
	MetricLevenshtein: Levenshtein,
	MetricJaccard:     Jaccard,
	MetricCosine:      Cosine,
}

// Lookup returns the metric registered under name. An empty name selects
// the Levenshtein ratio.
func Lookup(name string) (Metric, error) {
	if name == "" {
		return Levenshtein, nil
	}
	m, ok := metrics[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown similarity metric: %s", name)
	}
	return m, nil
}

func Names() []string {
	names := make([]string, 0, len(metrics))
	for n := range metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Normalize prepares OCR text for comparison: NFC composition, control
// characters removed, whitespace runs collapsed to one space, lowercased.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Compare normalizes both inputs and scores them with m.
func Compare(m Metric, a, b string) float64 {
	return m(Normalize(a), Normalize(b))
}

// Levenshtein is 1 - edit distance / max length, both counted in runes.
func Levenshtein(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// Jaccard is |A∩B| / |A∪B| over whitespace-separated token sets.
func Jaccard(a, b string) float64 {
	if a == b {
		return 1.0
	}
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// Cosine compares token frequency vectors.
func Cosine(a, b string) float64 {
	if a == b {
		return 1.0
	}
	fa := tokenCounts(a)
	fb := tokenCounts(b)
	if len(fa) == 0 || len(fb) == 0 {
		if len(fa) == len(fb) {
			return 1.0
		}
		return 0
	}
	var dot, na, nb int
	for t, ca := range fa {
		na += ca * ca
		if cb, ok := fb[t]; ok {
			dot += ca * cb
		}
	}
	for _, cb := range fb {
		nb += cb * cb
	}
	score := float64(dot) / (math.Sqrt(float64(na)) * math.Sqrt(float64(nb)))
	// float rounding can push identical vectors a hair above 1
	return math.Min(1.0, score)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func tokenCounts(s string) map[string]int {
	counts := make(map[string]int)
	for _, t := range strings.Fields(s) {
		counts[t]++
	}
	return counts
}
