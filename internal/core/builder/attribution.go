package builder

import (
	"strings"
	"unicode/utf8"

	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
)

// minMatchRunes is the normalized length below which a block only supports
// a file whose whole content it is.
const minMatchRunes = 4

type blockText struct {
	id    string
	whole string
	lines []string
}

// attributor decides which canonical blocks a proposed file was built from.
type attributor struct {
	blocks    []blockText
	threshold float64
}

func newAttributor(blocks []model.CanonicalTextBlock, threshold float64) *attributor {
	a := &attributor{threshold: threshold}
	for _, b := range blocks {
		a.blocks = append(a.blocks, blockText{
			id:    b.ID,
			whole: similarity.Normalize(b.Content),
			lines: normalizedLines(b.Content),
		})
	}
	return a
}

// supporting returns the ids, in block order, of every block whose text
// appears in content: either as a substring or with at least threshold of
// its lines present.
func (a *attributor) supporting(content string) []string {
	whole := similarity.Normalize(content)
	lineSet := make(map[string]struct{})
	for _, l := range normalizedLines(content) {
		lineSet[l] = struct{}{}
	}

	var ids []string
	for _, b := range a.blocks {
		if coverage(b, whole, lineSet) >= a.threshold {
			ids = append(ids, b.id)
		}
	}
	return ids
}

func coverage(b blockText, whole string, lineSet map[string]struct{}) float64 {
	if b.whole == "" {
		return 0
	}
	if utf8.RuneCountInString(b.whole) < minMatchRunes {
		if whole == b.whole {
			return 1
		}
		return 0
	}
	if strings.Contains(whole, b.whole) {
		return 1
	}
	hit := 0
	for _, l := range b.lines {
		if _, ok := lineSet[l]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(b.lines))
}

func normalizedLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if n := similarity.Normalize(l); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func sameContent(a, b string) bool {
	return canonicalContent(a) == canonicalContent(b)
}

func canonicalContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, " \t\n")
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
