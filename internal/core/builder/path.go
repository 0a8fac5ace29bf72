package builder

import (
	"errors"
	"fmt"
	"strings"
)

var ErrPathTraversal = errors.New("path escapes project root")

// PathTraversalError rejects a single proposed path. It never aborts a build.
type PathTraversalError struct {
	Path   string
	Reason string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("rejected path %q: %s", e.Path, e.Reason)
}

func (e *PathTraversalError) Is(target error) bool {
	return target == ErrPathTraversal
}

// NormalizePath splits a proposed path into trimmed segments. Backslashes
// count as separators and "." segments are dropped. Empty segments, "..",
// drive prefixes and NUL bytes are rejected.
func NormalizePath(p string) ([]string, error) {
	if strings.TrimSpace(p) == "" {
		return nil, &PathTraversalError{Path: p, Reason: "empty path"}
	}
	if strings.ContainsRune(p, 0) {
		return nil, &PathTraversalError{Path: p, Reason: "NUL byte in path"}
	}

	raw := strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
	segments := make([]string, 0, len(raw))
	for i, seg := range raw {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "" && i == 0:
			return nil, &PathTraversalError{Path: p, Reason: "absolute path"}
		case seg == "":
			return nil, &PathTraversalError{Path: p, Reason: "empty segment"}
		case seg == ".":
			continue
		case seg == "..":
			return nil, &PathTraversalError{Path: p, Reason: "parent directory reference"}
		case i == 0 && len(seg) == 2 && seg[1] == ':':
			return nil, &PathTraversalError{Path: p, Reason: "drive prefix"}
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, &PathTraversalError{Path: p, Reason: "path names no file"}
	}
	return segments, nil
}
