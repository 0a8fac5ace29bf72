package model

type ConflictKind string

const (
	ConflictDuplicatePath   ConflictKind = "DuplicatePath"
	ConflictAmbiguousType   ConflictKind = "AmbiguousType"
	ConflictOrphanedContent ConflictKind = "OrphanedContent"
)

type Resolution string

const (
	ResolutionLaterWins      Resolution = "LaterWins"
	ResolutionClassifierWins Resolution = "ClassifierWins"
	ResolutionUnresolved     Resolution = "Unresolved"
)

// ConflictRecord documents an ambiguity met while assembling the tree.
// Superseded holds the discarded content for DuplicatePath records.
type ConflictRecord struct {
	Path       string       `json:"path"`
	Kind       ConflictKind `json:"kind"`
	Resolution Resolution   `json:"resolution"`
	BlockID    string       `json:"block_id,omitempty"`
	Superseded string       `json:"superseded,omitempty"`
	Detail     string       `json:"detail,omitempty"`
}

// RejectedEntry is a proposed entry the builder skipped.
type RejectedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type ResultStats struct {
	Observations int `json:"observations"`
	Clusters     int `json:"clusters"`
	Blocks       int `json:"blocks"`
	Entries      int `json:"entries"`
	Files        int `json:"files"`
}

// ReconstructionResult is the outcome of one reconstruction run.
type ReconstructionResult struct {
	RunID     string           `json:"run_id,omitempty"`
	Success   bool             `json:"success"`
	Tree      *Directory       `json:"tree"`
	Conflicts []ConflictRecord `json:"conflicts"`
	Warnings  []string         `json:"warnings"`
	Rejected  []RejectedEntry  `json:"rejected,omitempty"`
	Stats     ResultStats      `json:"stats"`
}

func (r *ReconstructionResult) ConflictsOfKind(kind ConflictKind) []ConflictRecord {
	var out []ConflictRecord
	for _, c := range r.Conflicts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// ProposedEntry is one path→content pair in the order the classifier emitted it.
type ProposedEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ProposedStructure is the classifier's proposal, duplicates included.
type ProposedStructure struct {
	Entries   []ProposedEntry   `json:"entries"`
	FileTypes map[string]string `json:"file_types"`
}
