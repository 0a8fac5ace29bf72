package classifier

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/alingse/visionscribe/internal/core/model"
)

// blockOverhead approximates the JSON framing each block adds to a prompt.
const blockOverhead = 12

type batchItem struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

func estimateTokens(b model.CanonicalTextBlock) int {
	return (utf8.RuneCountInString(b.Content)+3)/4 + blockOverhead
}

// Batch packs blocks, in order, into groups whose estimated token cost
// fits budget. A block larger than the budget gets a batch of its own.
func Batch(blocks []model.CanonicalTextBlock, budget int) [][]model.CanonicalTextBlock {
	var batches [][]model.CanonicalTextBlock
	var cur []model.CanonicalTextBlock
	used := 0
	for _, b := range blocks {
		cost := estimateTokens(b)
		if len(cur) > 0 && used+cost > budget {
			batches = append(batches, cur)
			cur, used = nil, 0
		}
		cur = append(cur, b)
		used += cost
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

func renderPrompt(batch []model.CanonicalTextBlock, index, total int) (string, error) {
	items := make([]batchItem, len(batch))
	for i, b := range batch {
		items[i] = batchItem{Content: b.Content, Confidence: b.Confidence}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}
	return fmt.Sprintf("Text blocks (batch %d of %d):\n%s", index+1, total, data), nil
}
