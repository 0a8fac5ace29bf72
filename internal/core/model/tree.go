package model

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
)

// ProjectNode is either a *Directory or a *FileLeaf.
type ProjectNode interface {
	NodeName() string
	isProjectNode()
}

type Directory struct {
	Name     string
	Children map[string]ProjectNode
}

type FileLeaf struct {
	Name           string
	Content        string
	FileType       string
	SizeBytes      int
	SourceBlockIDs []string
}

func NewDirectory(name string) *Directory {
	return &Directory{Name: name, Children: make(map[string]ProjectNode)}
}

func NewFileLeaf(name, content, fileType string, blockIDs []string) *FileLeaf {
	return &FileLeaf{
		Name:           name,
		Content:        content,
		FileType:       fileType,
		SizeBytes:      len(content),
		SourceBlockIDs: blockIDs,
	}
}

func (d *Directory) NodeName() string { return d.Name }
func (f *FileLeaf) NodeName() string  { return f.Name }

func (*Directory) isProjectNode() {}
func (*FileLeaf) isProjectNode()  {}

// SortedNames returns child names in lexical order.
func (d *Directory) SortedNames() []string {
	names := make([]string, 0, len(d.Children))
	for name := range d.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits every node below d depth-first in sorted-name order. The
// root itself is not visited. rel is the slash-separated path from the root.
// Returning false from fn stops descent into a directory.
func (d *Directory) Walk(fn func(rel string, node ProjectNode) bool) {
	d.walk("", fn)
}

func (d *Directory) walk(prefix string, fn func(string, ProjectNode) bool) {
	for _, name := range d.SortedNames() {
		child := d.Children[name]
		rel := path.Join(prefix, name)
		if !fn(rel, child) {
			continue
		}
		if sub, ok := child.(*Directory); ok {
			sub.walk(rel, fn)
		}
	}
}

// Files returns every leaf keyed by its path from the root.
func (d *Directory) Files() map[string]*FileLeaf {
	files := make(map[string]*FileLeaf)
	d.Walk(func(rel string, node ProjectNode) bool {
		if f, ok := node.(*FileLeaf); ok {
			files[rel] = f
		}
		return true
	})
	return files
}

func (d *Directory) FileCount() int {
	return len(d.Files())
}

// Lookup resolves a slash-separated path relative to d.
func (d *Directory) Lookup(segments ...string) (ProjectNode, bool) {
	var cur ProjectNode = d
	for _, seg := range segments {
		dir, ok := cur.(*Directory)
		if !ok {
			return nil, false
		}
		next, ok := dir.Children[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

type directoryJSON struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name"`
	Children []ProjectNode `json:"children"`
}

type fileJSON struct {
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	Content        string   `json:"content"`
	FileType       string   `json:"file_type"`
	SizeBytes      int      `json:"size_bytes"`
	SourceBlockIDs []string `json:"source_block_ids"`
}

func (d *Directory) MarshalJSON() ([]byte, error) {
	out := directoryJSON{Kind: "directory", Name: d.Name, Children: []ProjectNode{}}
	for _, name := range d.SortedNames() {
		out.Children = append(out.Children, d.Children[name])
	}
	return json.Marshal(out)
}

func (f *FileLeaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{
		Kind:           "file",
		Name:           f.Name,
		Content:        f.Content,
		FileType:       f.FileType,
		SizeBytes:      f.SizeBytes,
		SourceBlockIDs: f.SourceBlockIDs,
	})
}

type nodeJSON struct {
	Kind           string            `json:"kind"`
	Name           string            `json:"name"`
	Children       []json.RawMessage `json:"children"`
	Content        string            `json:"content"`
	FileType       string            `json:"file_type"`
	SizeBytes      int               `json:"size_bytes"`
	SourceBlockIDs []string          `json:"source_block_ids"`
}

func (d *Directory) UnmarshalJSON(data []byte) error {
	node, err := decodeNode(data)
	if err != nil {
		return err
	}
	dir, ok := node.(*Directory)
	if !ok {
		return fmt.Errorf("expected directory node, got %q", node.NodeName())
	}
	*d = *dir
	return nil
}

func decodeNode(data []byte) (ProjectNode, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Kind == "file" {
		leaf := NewFileLeaf(raw.Name, raw.Content, raw.FileType, raw.SourceBlockIDs)
		return leaf, nil
	}
	dir := NewDirectory(raw.Name)
	for _, c := range raw.Children {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		if _, dup := dir.Children[child.NodeName()]; dup {
			return nil, fmt.Errorf("directory %q has two children named %q", raw.Name, child.NodeName())
		}
		dir.Children[child.NodeName()] = child
	}
	return dir, nil
}
