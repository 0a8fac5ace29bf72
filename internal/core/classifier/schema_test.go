package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/model"
)

func TestParseResponseNestedAndFlat(t *testing.T) {
	raw := `{
		"structure": {
			"src": {
				"app.py": "print(1)",
				"lib": {"util.py": "def f():\n    return 1"}
			},
			"README.md": "# demo",
			"src/app.py": "print(2)"
		},
		"file_types": {"src/app.py": "Python", "README.md": "markdown"}
	}`
	proposed, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, []model.ProposedEntry{
		{Path: "src/app.py", Content: "print(1)"},
		{Path: "src/lib/util.py", Content: "def f():\n    return 1"},
		{Path: "README.md", Content: "# demo"},
		{Path: "src/app.py", Content: "print(2)"},
	}, proposed.Entries)
	assert.Equal(t, map[string]string{"src/app.py": "python", "README.md": "markdown"}, proposed.FileTypes)
}

func TestParseResponseKeepsDuplicateKeys(t *testing.T) {
	proposed, err := ParseResponse(`{"structure": {"a.txt": "one", "a.txt": "two"}}`)
	require.NoError(t, err)
	require.Len(t, proposed.Entries, 2)
	assert.Equal(t, "one", proposed.Entries[0].Content)
	assert.Equal(t, "two", proposed.Entries[1].Content)
}

func TestParseResponseRejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"no json", "I could not do it", "no JSON object"},
		{"broken json", `{"structure": {"a": "b"`, "no JSON object"},
		{"trailing garbage inside", `{"structure": {"a": "b",}}`, "not valid JSON"},
		{"missing structure", `{"files": {}}`, "missing \"structure\""},
		{"structure array", `{"structure": []}`, "must be an object"},
		{"numeric leaf", `{"structure": {"a.txt": 3}}`, "a.txt"},
		{"nested array", `{"structure": {"src": {"x": [1]}}}`, "src/x"},
		{"file types array", `{"structure": {}, "file_types": ["go"]}`, "file_types"},
		{"file type number", `{"structure": {}, "file_types": {"a": 1}}`, "must be a string"},
		{"implausible type", `{"structure": {}, "file_types": {"a": "rm -rf /"}}`, "implausible"},
		{"bad utf8", "{\"structure\": {\"a\": \"\xff\"}}", "UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			require.Error(t, err)
			var ire *InvalidClassifierResponseError
			require.ErrorAs(t, err, &ire)
			assert.Contains(t, ire.Reason, tt.reason)
		})
	}
}

func TestParseResponseNullFileTypes(t *testing.T) {
	proposed, err := ParseResponse(`{"structure": {"a.go": "package a"}, "file_types": null}`)
	require.NoError(t, err)
	assert.Empty(t, proposed.FileTypes)
}

func TestFragmentIsTruncated(t *testing.T) {
	raw := strings.Repeat("é", 300)
	f := fragment(raw)
	assert.LessOrEqual(t, len(f), maxFragment)
	assert.True(t, strings.HasPrefix(raw, f))
	assert.Equal(t, 0, len(f)%2)
}

func TestBatch(t *testing.T) {
	in := blocks(strings.Repeat("a", 400), strings.Repeat("b", 40), strings.Repeat("c", 40), strings.Repeat("d", 2000))
	batches := Batch(in, 130)
	require.Len(t, batches, 3)
	assert.Equal(t, "b0", batches[0][0].ID)
	assert.Equal(t, []string{"b1", "b2"}, []string{batches[1][0].ID, batches[1][1].ID})
	assert.Equal(t, "b3", batches[2][0].ID)

	assert.Empty(t, Batch(nil, 100))
}
