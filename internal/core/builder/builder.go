package builder

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/core/filetype"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/logging"
	"github.com/alingse/visionscribe/internal/metrics"
)

// Builder validates a proposed structure against the canonical blocks and
// assembles the project tree. It is deterministic and does no I/O.
type Builder struct {
	MinAttribution float64
	Logger         *zap.Logger
}

func NewBuilder(cfg config.BuilderConfig) *Builder {
	return &Builder{
		MinAttribution: cfg.MinAttribution,
		Logger:         zap.NewNop(),
	}
}

type buildState struct {
	root   *model.Directory
	result *model.ReconstructionResult
}

func (b *Builder) Build(proposed *model.ProposedStructure, blocks []model.CanonicalTextBlock) *model.ReconstructionResult {
	logger := logging.OrNop(b.Logger)
	st := &buildState{
		root: model.NewDirectory(""),
		result: &model.ReconstructionResult{
			Conflicts: []model.ConflictRecord{},
			Warnings:  []string{},
		},
	}
	if proposed == nil {
		proposed = &model.ProposedStructure{}
	}
	st.result.Stats.Blocks = len(blocks)
	st.result.Stats.Entries = len(proposed.Entries)

	att := newAttributor(blocks, b.MinAttribution)
	for i, entry := range proposed.Entries {
		segments, err := NormalizePath(entry.Path)
		if err != nil {
			st.reject(entry.Path, err.Error())
			st.warn("entry %d skipped: %v", i, err)
			logger.Warn("rejected proposed path", zap.String("path", entry.Path), zap.Error(err))
			continue
		}
		ids := att.supporting(entry.Content)
		if len(ids) == 0 {
			st.reject(entry.Path, "content not found in any text block")
			st.warn("entry %d skipped: %s has no supporting text block", i, strings.Join(segments, "/"))
			continue
		}
		st.insert(segments, entry.Content, ids)
	}

	st.detectOrphans(blocks)
	st.reconcileTypes(st.normalizeTypeKeys(proposed.FileTypes))

	files := st.root.FileCount()
	st.result.Stats.Files = files
	if files > 0 {
		st.result.Tree = st.root
	}
	st.result.Success = files > 0 && !hasUnresolvedDuplicate(st.result.Conflicts)

	for _, c := range st.result.Conflicts {
		metrics.RecordConflict(string(c.Kind), string(c.Resolution))
	}
	logger.Info("project tree assembled",
		zap.Int("files", files),
		zap.Int("conflicts", len(st.result.Conflicts)),
		zap.Int("rejected", len(st.result.Rejected)),
		zap.Bool("success", st.result.Success))
	return st.result
}

func (st *buildState) insert(segments []string, content string, ids []string) {
	full := strings.Join(segments, "/")
	dir := st.root
	for i, seg := range segments[:len(segments)-1] {
		child, ok := dir.Children[seg]
		if !ok {
			next := model.NewDirectory(seg)
			dir.Children[seg] = next
			dir = next
			continue
		}
		sub, isDir := child.(*model.Directory)
		if !isDir {
			st.conflict(model.ConflictRecord{
				Path:       full,
				Kind:       model.ConflictDuplicatePath,
				Resolution: model.ResolutionUnresolved,
				Superseded: content,
				Detail:     fmt.Sprintf("file %s exists where a directory is needed", strings.Join(segments[:i+1], "/")),
			})
			return
		}
		dir = sub
	}

	name := segments[len(segments)-1]
	existing, ok := dir.Children[name]
	if !ok {
		dir.Children[name] = model.NewFileLeaf(name, content, "", ids)
		return
	}

	switch node := existing.(type) {
	case *model.Directory:
		st.conflict(model.ConflictRecord{
			Path:       full,
			Kind:       model.ConflictDuplicatePath,
			Resolution: model.ResolutionUnresolved,
			Superseded: content,
			Detail:     "directory exists at this path, file entry discarded",
		})
	case *model.FileLeaf:
		if sameContent(node.Content, content) {
			node.SourceBlockIDs = unionIDs(node.SourceBlockIDs, ids)
			return
		}
		st.conflict(model.ConflictRecord{
			Path:       full,
			Kind:       model.ConflictDuplicatePath,
			Resolution: model.ResolutionLaterWins,
			Superseded: node.Content,
			Detail:     "later emission replaced earlier content",
		})
		dir.Children[name] = model.NewFileLeaf(name, content, "", ids)
	}
}

func (st *buildState) detectOrphans(blocks []model.CanonicalTextBlock) {
	used := make(map[string]struct{})
	for _, f := range st.root.Files() {
		for _, id := range f.SourceBlockIDs {
			used[id] = struct{}{}
		}
	}
	for _, blk := range blocks {
		if _, ok := used[blk.ID]; ok {
			continue
		}
		st.conflict(model.ConflictRecord{
			Kind:       model.ConflictOrphanedContent,
			Resolution: model.ResolutionUnresolved,
			BlockID:    blk.ID,
			Detail:     preview(blk.Content),
		})
	}
}

func (st *buildState) reconcileTypes(declared map[string]string) {
	files := st.root.Files()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fileType, conflict := reconcileType(p, declared[p])
		files[p].FileType = fileType
		if conflict != nil {
			st.conflict(*conflict)
		}
	}
}

// reconcileType prefers the declared type. A declared family word that
// agrees with the extension yields the more specific inferred type.
func reconcileType(p, declaredRaw string) (string, *model.ConflictRecord) {
	inferred := filetype.FromPath(p)
	declared := filetype.Canonical(declaredRaw)
	if declared == "" {
		return inferred, nil
	}
	if inferred == filetype.Unknown {
		return declared, nil
	}

	declaredFamily := filetype.FamilyOf(declared)
	inferredFamily := filetype.FamilyOf(inferred)
	if declaredFamily != filetype.FamilyUnknown && declaredFamily != inferredFamily {
		return declared, &model.ConflictRecord{
			Path:       p,
			Kind:       model.ConflictAmbiguousType,
			Resolution: model.ResolutionClassifierWins,
			Detail:     fmt.Sprintf("declared %s (%s), extension suggests %s (%s)", declared, declaredFamily, inferred, inferredFamily),
		}
	}
	if filetype.IsFamily(declared) {
		return inferred, nil
	}
	return declared, nil
}

// normalizeTypeKeys keys declared types by normalized path. When several
// declarations name the same path, the one spelled exactly as the normalized
// path wins, otherwise the lexicographically first key. Losers become warnings.
func (st *buildState) normalizeTypeKeys(types map[string]string) map[string]string {
	keys := make([]string, 0, len(types))
	for p := range types {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(types))
	owner := make(map[string]string, len(types))
	for _, p := range keys {
		segments, err := NormalizePath(p)
		if err != nil {
			continue
		}
		norm := strings.Join(segments, "/")
		prev, taken := owner[norm]
		if !taken {
			owner[norm] = p
			out[norm] = types[p]
			continue
		}
		winner, loser := prev, p
		if p == norm {
			winner, loser = p, prev
		}
		if winner != prev {
			owner[norm] = winner
			out[norm] = types[winner]
		}
		if types[loser] != types[winner] {
			st.warn("file type %q for %s ignored: %q declares %q", types[loser], loser, winner, types[winner])
		}
	}
	return out
}

func (st *buildState) conflict(c model.ConflictRecord) {
	st.result.Conflicts = append(st.result.Conflicts, c)
}

func (st *buildState) warn(format string, args ...any) {
	st.result.Warnings = append(st.result.Warnings, fmt.Sprintf(format, args...))
}

func (st *buildState) reject(path, reason string) {
	st.result.Rejected = append(st.result.Rejected, model.RejectedEntry{Path: path, Reason: reason})
}

func hasUnresolvedDuplicate(conflicts []model.ConflictRecord) bool {
	for _, c := range conflicts {
		if c.Kind == model.ConflictDuplicatePath && c.Resolution == model.ResolutionUnresolved {
			return true
		}
	}
	return false
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:60]) + "..."
	}
	return s
}
