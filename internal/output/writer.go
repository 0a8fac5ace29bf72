package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/logging"
)

const (
	ProjectDir     = "project"
	ResultFile     = "reconstruction.json"
	DocsFile       = "PROJECT.md"
	TreeFile       = "tree.txt"
	defaultDirMode = 0o755
	defaultMode    = 0o644
)

// Writer materializes a reconstruction on an afero filesystem.
type Writer struct {
	Fs     afero.Fs
	Title  string
	Now    func() time.Time
	Logger *zap.Logger
}

func NewWriter(fs afero.Fs, logger *zap.Logger) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{
		Fs:     fs,
		Title:  "Reconstructed Project",
		Now:    time.Now,
		Logger: logging.OrNop(logger),
	}
}

// WriteTree creates every directory and file of tree under dir and returns
// the number of files written.
func (w *Writer) WriteTree(dir string, tree *model.Directory) (int, error) {
	if tree == nil {
		return 0, nil
	}
	if err := w.Fs.MkdirAll(dir, defaultDirMode); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	files := tree.Files()
	paths := make([]string, 0, len(files))
	for rel := range files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := w.Fs.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
			return 0, fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := afero.WriteFile(w.Fs, target, []byte(files[rel].Content), defaultMode); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}
	return len(paths), nil
}

// WriteResult writes the project tree, the result JSON, a rendered tree
// and the Markdown documentation into dir.
func (w *Writer) WriteResult(dir string, res *model.ReconstructionResult) error {
	logger := logging.OrNop(w.Logger)
	if err := w.Fs.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	n, err := w.WriteTree(filepath.Join(dir, ProjectDir), res.Tree)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := w.writeFile(filepath.Join(dir, ResultFile), data); err != nil {
		return err
	}
	if err := w.writeFile(filepath.Join(dir, TreeFile), []byte(RenderTree(res.Tree)+"\n")); err != nil {
		return err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	doc := RenderMarkdown(w.Title, res, now())
	if err := w.writeFile(filepath.Join(dir, DocsFile), []byte(doc)); err != nil {
		return err
	}

	logger.Info("reconstruction written",
		zap.String("dir", dir),
		zap.Int("files", n),
		zap.Bool("success", res.Success))
	return nil
}

func (w *Writer) writeFile(name string, data []byte) error {
	if err := afero.WriteFile(w.Fs, name, data, defaultMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
