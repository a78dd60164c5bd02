// Package types defines the data structures shared across mdtree packages.
package types

const (
	// DirectoryTreeFileName is the artifact holding the rendered directory tree.
	DirectoryTreeFileName = "directory_tree.txt"
	// SingleFileOutputName is the combined artifact written in single-file mode.
	SingleFileOutputName = "all_files.txt"
	// PerFileOutputExtension is appended to every sanitised per-file artifact name.
	PerFileOutputExtension = ".txt"
	// BlockSeparator joins formatted blocks in single-file mode.
	BlockSeparator = "---\n"
)

// Entry is a single filesystem entry that survived filtering.
// RelativePath always uses forward slashes and is relative to the input root.
type Entry struct {
	RelativePath string
	Name         string
	Depth        int
	IsDir        bool
}

// ExtensionCount reports how many files carry a given extension key.
type ExtensionCount struct {
	Key   string
	Count int
}

// FileBlock is the formatted representation of one source file.
type FileBlock struct {
	RelativePath string
	Language     string
	Text         string
	SizeBytes    int64
	IsBinary     bool
}
