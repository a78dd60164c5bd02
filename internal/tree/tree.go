// Package tree renders a filtered entry list as tree(1) style text.
//
// Rendering is a pure function of its input: the order in which entries are
// supplied does not influence the output. Children of every directory are
// grouped directories first, then files, and each group is sorted by name
// case-insensitively with a byte-wise tie-breaker.
package tree

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/temirov/mdtree/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	rootLine          = "."
	summaryLineFormat = "%d directories, %d files"
	lineSeparator     = "\n"
	pathSeparator     = "/"
)

// Result holds the rendered lines and the counts reported in the summary line.
type Result struct {
	Lines       []string
	Directories int
	Files       int
}

// String joins the rendered lines into the text written to disk.
func (result Result) String() string {
	return strings.Join(result.Lines, lineSeparator) + lineSeparator
}

// SummaryLine returns the trailing "<D> directories, <F> files" line.
func (result Result) SummaryLine() string {
	return fmt.Sprintf(summaryLineFormat, result.Directories, result.Files)
}

// CompareNames orders two sibling names case-insensitively, falling back to a
// byte-wise comparison so that the ordering is total.
func CompareNames(first string, second string) int {
	firstFolded := strings.ToLower(first)
	secondFolded := strings.ToLower(second)
	if firstFolded != secondFolded {
		return strings.Compare(firstFolded, secondFolded)
	}
	return strings.Compare(first, second)
}

// Less reports whether first sorts before second among siblings:
// directories before files, then by CompareNames.
func Less(first types.Entry, second types.Entry) bool {
	if first.IsDir != second.IsDir {
		return first.IsDir
	}
	return CompareNames(first.Name, second.Name) < 0
}

type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
	index    map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{name: name, isDir: isDir, index: map[string]*treeNode{}}
}

// child returns the named child, creating it when missing. A name seen once as
// a directory stays a directory.
func (node *treeNode) child(name string, isDir bool) *treeNode {
	existing, found := node.index[name]
	if found {
		existing.isDir = existing.isDir || isDir
		return existing
	}
	created := newTreeNode(name, isDir)
	node.index[name] = created
	node.children = append(node.children, created)
	return created
}

func (node *treeNode) sortChildren() {
	sort.Slice(node.children, func(i, j int) bool {
		first := node.children[i]
		second := node.children[j]
		if first.isDir != second.isDir {
			return first.isDir
		}
		return CompareNames(first.name, second.name) < 0
	})
}

// Render builds the tree text for entries rooted at a single directory.
// Directories implied by a descendant path but missing from entries are
// rendered and counted as well.
func Render(entries []types.Entry) Result {
	root := newTreeNode(rootLine, true)
	for _, entry := range entries {
		segments := splitRelativePath(entry.RelativePath)
		if len(segments) == 0 {
			continue
		}
		current := root
		for segmentIndex, segment := range segments {
			isLast := segmentIndex == len(segments)-1
			current = current.child(segment, !isLast || entry.IsDir)
		}
	}

	result := Result{Lines: []string{rootLine}}
	renderChildren(root, "", &result)
	result.Lines = append(result.Lines, "", result.SummaryLine())
	return result
}

func renderChildren(node *treeNode, prefix string, result *Result) {
	node.sortChildren()
	for childIndex, child := range node.children {
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if childIndex == len(node.children)-1 {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		result.Lines = append(result.Lines, prefix+connector+child.name)
		if !child.isDir {
			result.Files++
			continue
		}
		result.Directories++
		renderChildren(child, childPrefix, result)
	}
}

func splitRelativePath(relativePath string) []string {
	normalized := strings.ReplaceAll(relativePath, "\\", pathSeparator)
	cleaned := strings.Trim(path.Clean(pathSeparator+normalized), pathSeparator)
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, pathSeparator)
}
