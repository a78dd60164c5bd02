// Package walker enumerates the filesystem entries that take part in a run.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/tree"
	"github.com/temirov/mdtree/internal/types"
)

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorStatRootFormat      = "inspecting %s: %w"
	errorResolveRootFormat   = "resolving %s: %w"
	errorReadDirectoryFormat = "reading directory %s: %w"
	errorNotDirectoryFormat  = "%s: %w"

	warningSkipSubdirectory = "skipping unreadable directory"
	warningBrokenSymlink    = "skipping broken symlink"
	warningSymlinkCycle     = "skipping directory already visited through another path"
	debugExcludedDirectory  = "pruning excluded directory"
	debugSpecialFile        = "skipping non-regular file"
	debugSkippedPath        = "skipping output directory"

	logFieldPath   = "path"
	logFieldTarget = "target"
)

// ErrNotDirectory is returned when the walk root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Walker enumerates entries below a root directory.
type Walker struct {
	acceptFile   func(name string) bool
	exclusions   filter.ExclusionSet
	skippedPaths map[string]struct{}
	logger       *zap.Logger
}

// New returns a Walker that keeps files accepted by extensionFilter and prunes
// directories contained in exclusions.
func New(extensionFilter filter.ExtensionFilter, exclusions filter.ExclusionSet, logger *zap.Logger) *Walker {
	return newWalker(extensionFilter.Accepts, exclusions, logger)
}

// NewUnfiltered returns a Walker that keeps every file except the always
// skipped ones.
func NewUnfiltered(exclusions filter.ExclusionSet, logger *zap.Logger) *Walker {
	return newWalker(acceptAnyFile, exclusions, logger)
}

func acceptAnyFile(name string) bool {
	return !filter.AlwaysSkipped(name)
}

func newWalker(acceptFile func(string) bool, exclusions filter.ExclusionSet, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{acceptFile: acceptFile, exclusions: exclusions, skippedPaths: map[string]struct{}{}, logger: logger}
}

// SkipPath prunes the directory at directoryPath wherever it is met during the
// walk. It is used to keep the output directory out of its own input.
func (walker *Walker) SkipPath(directoryPath string) {
	absolutePath, absoluteError := filepath.Abs(directoryPath)
	if absoluteError != nil {
		return
	}
	if canonicalPath, resolveError := filepath.EvalSymlinks(absolutePath); resolveError == nil {
		absolutePath = canonicalPath
	}
	walker.skippedPaths[filepath.Clean(absolutePath)] = struct{}{}
}

type candidate struct {
	entry        types.Entry
	absolutePath string
}

// Walk returns the filtered entries below root in pre-order with directories
// before files and names compared case-insensitively. Directories are kept even
// when none of their files are accepted.
func (walker *Walker) Walk(root string) ([]types.Entry, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, root, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, root, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorNotDirectoryFormat, root, ErrNotDirectory)
	}
	canonicalRoot, resolveError := filepath.EvalSymlinks(absoluteRoot)
	if resolveError != nil {
		return nil, fmt.Errorf(errorResolveRootFormat, root, resolveError)
	}

	visited := map[string]struct{}{canonicalRoot: {}}
	return walker.walkDirectory(absoluteRoot, "", 0, visited)
}

func (walker *Walker) walkDirectory(directoryPath string, relativeDirectory string, depth int, visited map[string]struct{}) ([]types.Entry, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}

	candidates := make([]candidate, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		isDir, keep := walker.classify(directoryEntry, childPath)
		if !keep {
			continue
		}
		if isDir && walker.exclusions.Contains(directoryEntry.Name()) {
			walker.logger.Debug(debugExcludedDirectory, zap.String(logFieldPath, childPath))
			continue
		}
		if !isDir && !walker.acceptFile(directoryEntry.Name()) {
			continue
		}
		candidates = append(candidates, candidate{
			entry: types.Entry{
				RelativePath: path.Join(relativeDirectory, directoryEntry.Name()),
				Name:         directoryEntry.Name(),
				Depth:        depth + 1,
				IsDir:        isDir,
			},
			absolutePath: childPath,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return tree.Less(candidates[i].entry, candidates[j].entry)
	})

	var entries []types.Entry
	for _, child := range candidates {
		if !child.entry.IsDir {
			entries = append(entries, child.entry)
			continue
		}
		canonicalPath, resolveError := filepath.EvalSymlinks(child.absolutePath)
		if resolveError != nil {
			walker.logger.Warn(warningBrokenSymlink, zap.String(logFieldPath, child.absolutePath), zap.Error(resolveError))
			continue
		}
		if _, skipped := walker.skippedPaths[canonicalPath]; skipped {
			walker.logger.Debug(debugSkippedPath, zap.String(logFieldPath, child.absolutePath))
			continue
		}
		if _, seen := visited[canonicalPath]; seen {
			walker.logger.Warn(warningSymlinkCycle, zap.String(logFieldPath, child.absolutePath), zap.String(logFieldTarget, canonicalPath))
			continue
		}
		visited[canonicalPath] = struct{}{}

		childEntries, walkError := walker.walkDirectory(child.absolutePath, child.entry.RelativePath, child.entry.Depth, visited)
		if walkError != nil {
			walker.logger.Warn(warningSkipSubdirectory, zap.String(logFieldPath, child.absolutePath), zap.Error(walkError))
			continue
		}
		entries = append(entries, child.entry)
		entries = append(entries, childEntries...)
	}
	return entries, nil
}

// classify resolves whether a directory entry is a directory, following
// symlinks. The second result is false for entries that must be skipped.
func (walker *Walker) classify(directoryEntry fs.DirEntry, childPath string) (bool, bool) {
	entryType := directoryEntry.Type()
	if entryType&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(childPath)
		if statError != nil {
			walker.logger.Warn(warningBrokenSymlink, zap.String(logFieldPath, childPath), zap.Error(statError))
			return false, false
		}
		if !targetInfo.IsDir() && !targetInfo.Mode().IsRegular() {
			walker.logger.Debug(debugSpecialFile, zap.String(logFieldPath, childPath))
			return false, false
		}
		return targetInfo.IsDir(), true
	}
	if directoryEntry.IsDir() {
		return true, true
	}
	if !entryType.IsRegular() {
		walker.logger.Debug(debugSpecialFile, zap.String(logFieldPath, childPath))
		return false, false
	}
	return false, true
}

// Files returns only the file entries of entries, preserving order.
func Files(entries []types.Entry) []types.Entry {
	var files []types.Entry
	for _, entry := range entries {
		if !entry.IsDir {
			files = append(files, entry)
		}
	}
	return files
}
