package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/alingse/visionscribe/internal/core/model"
)

// RenderTree draws the tree with box-drawing connectors. Files come before
// subdirectories at each level, both in name order.
func RenderTree(root *model.Directory) string {
	if root == nil {
		return ""
	}
	var lines []string
	renderDir(root, "", &lines)
	return strings.Join(lines, "\n")
}

func renderDir(d *model.Directory, indent string, lines *[]string) {
	files, dirs := split(d)
	total := len(files) + len(dirs)
	i := 0
	for _, f := range files {
		i++
		*lines = append(*lines, indent+connector(i == total)+f.Name)
	}
	for _, sub := range dirs {
		i++
		last := i == total
		*lines = append(*lines, indent+connector(last)+sub.Name+"/")
		next := indent + "│   "
		if last {
			next = indent + "    "
		}
		renderDir(sub, next, lines)
	}
}

func connector(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func split(d *model.Directory) ([]*model.FileLeaf, []*model.Directory) {
	var files []*model.FileLeaf
	var dirs []*model.Directory
	for _, name := range d.SortedNames() {
		switch n := d.Children[name].(type) {
		case *model.FileLeaf:
			files = append(files, n)
		case *model.Directory:
			dirs = append(dirs, n)
		}
	}
	return files, dirs
}

// RenderMarkdown documents a reconstruction: layout, file contents and
// any conflicts that were recorded.
func RenderMarkdown(title string, res *model.ReconstructionResult, generated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated on: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	status := "complete"
	if !res.Success {
		status = "incomplete"
	}
	fmt.Fprintf(&b, "Status: %s (%d files from %d text blocks, %d conflicts)\n\n",
		status, res.Stats.Files, res.Stats.Blocks, len(res.Conflicts))

	b.WriteString("## Project Structure\n\n````\n")
	b.WriteString(RenderTree(res.Tree))
	b.WriteString("\n````\n\n")

	b.WriteString("## File Contents\n\n")
	if res.Tree != nil {
		res.Tree.Walk(func(rel string, node model.ProjectNode) bool {
			leaf, ok := node.(*model.FileLeaf)
			if !ok {
				return true
			}
			fence := "```"
			if strings.Contains(leaf.Content, "```") {
				fence = "````"
			}
			lang := leaf.FileType
			if lang == "unknown" {
				lang = ""
			}
			fmt.Fprintf(&b, "### %s\n\n%s%s\n%s\n%s\n\n", rel, fence, lang, strings.TrimRight(leaf.Content, "\n"), fence)
			return true
		})
	}

	if len(res.Conflicts) > 0 {
		b.WriteString("## Conflicts\n\n")
		for _, c := range res.Conflicts {
			target := c.Path
			if target == "" {
				target = "block " + c.BlockID
			}
			fmt.Fprintf(&b, "- %s `%s` (%s)", c.Kind, target, c.Resolution)
			if c.Detail != "" {
				fmt.Fprintf(&b, ": %s", c.Detail)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(res.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
