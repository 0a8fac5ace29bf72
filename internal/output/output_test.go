package output

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/model"
)

func sampleTree() *model.Directory {
	root := model.NewDirectory("")
	src := model.NewDirectory("src")
	lib := model.NewDirectory("lib")
	lib.Children["util.py"] = model.NewFileLeaf("util.py", "def f(): pass\n", "python", []string{"b2"})
	src.Children["lib"] = lib
	src.Children["app.py"] = model.NewFileLeaf("app.py", "print(1)\n", "python", []string{"b1"})
	root.Children["src"] = src
	root.Children["README.md"] = model.NewFileLeaf("README.md", "# Demo", "markdown", []string{"b3"})
	root.Children["docs"] = model.NewDirectory("docs")
	return root
}

func TestRenderTree(t *testing.T) {
	want := strings.Join([]string{
		"├── README.md",
		"├── docs/",
		"└── src/",
		"    ├── app.py",
		"    └── lib/",
		"        └── util.py",
	}, "\n")
	assert.Equal(t, want, RenderTree(sampleTree()))
	assert.Equal(t, "", RenderTree(nil))
}

func TestRenderMarkdown(t *testing.T) {
	res := &model.ReconstructionResult{
		Success: true,
		Tree:    sampleTree(),
		Conflicts: []model.ConflictRecord{
			{Kind: model.ConflictOrphanedContent, Resolution: model.ResolutionUnresolved, BlockID: "b9", Detail: "stray"},
		},
		Warnings: []string{"entry 3 skipped"},
		Stats:    model.ResultStats{Files: 3, Blocks: 4},
	}
	doc := RenderMarkdown("Demo", res, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(doc, "# Demo\n\nGenerated on: 2024-05-01 12:00:00\n"))
	assert.Contains(t, doc, "Status: complete (3 files from 4 text blocks, 1 conflicts)")
	assert.Contains(t, doc, "### src/app.py\n\n```python\nprint(1)\n```")
	assert.Contains(t, doc, "### src/lib/util.py")
	assert.Contains(t, doc, "- OrphanedContent `block b9` (Unresolved): stray")
	assert.Contains(t, doc, "## Warnings\n\n- entry 3 skipped")
}

func TestWriteResult(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, nil)
	w.Now = func() time.Time { return time.Unix(0, 0).UTC() }
	res := &model.ReconstructionResult{RunID: "r1", Success: true, Tree: sampleTree()}

	require.NoError(t, w.WriteResult("/out", res))

	data, err := afero.ReadFile(fs, filepath.Join("/out", ProjectDir, "src", "lib", "util.py"))
	require.NoError(t, err)
	assert.Equal(t, "def f(): pass\n", string(data))

	ok, err := afero.Exists(fs, filepath.Join("/out", ProjectDir, "README.md"))
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := afero.ReadFile(fs, filepath.Join("/out", ResultFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "r1", decoded["run_id"])

	for _, name := range []string{DocsFile, TreeFile} {
		ok, err := afero.Exists(fs, filepath.Join("/out", name))
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestWriteTreeNil(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs(), nil)
	n, err := w.WriteTree("/out", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriteTreeReadOnlyFs(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()), nil)
	_, err := w.WriteTree("/out", sampleTree())
	assert.Error(t, err)
}
