// Package filter decides which files and directories take part in a run.
package filter

import (
	"sort"
	"strings"

	"github.com/temirov/mdtree/internal/utils"
)

const (
	extensionSeparator = "."
	listSeparator      = ","
)

// defaultExcludedDirectories are pruned on every run regardless of configuration.
var defaultExcludedDirectories = []string{utils.GitDirectoryName, ".terraform", "node_modules"}

// alwaysSkippedFiles never produce content even when their key is selected.
var alwaysSkippedFiles = map[string]struct{}{
	".DS_Store": {},
	".env":      {},
}

// DefaultExcludedDirectories returns a copy of the built-in exclusion list.
func DefaultExcludedDirectories() []string {
	return append([]string(nil), defaultExcludedDirectories...)
}

// AlwaysSkipped reports whether the file name is never converted.
func AlwaysSkipped(name string) bool {
	_, skipped := alwaysSkippedFiles[name]
	return skipped
}

// SplitExtension returns the final extension of name including the dot.
// Leading dots do not start an extension, so ".bashrc" has none.
func SplitExtension(name string) string {
	trimmed := strings.TrimLeft(name, extensionSeparator)
	separatorIndex := strings.LastIndex(trimmed, extensionSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return trimmed[separatorIndex:]
}

// Key returns the selection key of a file name: its lower-cased extension, or
// the whole name when the file has no extension.
func Key(name string) string {
	extension := SplitExtension(name)
	if extension == "" {
		return name
	}
	return strings.ToLower(extension)
}

// NormalizeExtensions turns user input into selection keys. Values may be comma
// separated. Values beginning with a dot are lower-cased, bare names such as
// "Makefile" are kept verbatim.
func NormalizeExtensions(values []string) []string {
	var normalized []string
	for _, value := range values {
		for _, part := range strings.Split(value, listSeparator) {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, extensionSeparator) {
				trimmed = strings.ToLower(trimmed)
			}
			normalized = append(normalized, trimmed)
		}
	}
	return utils.DeduplicatePatterns(normalized)
}

// ExtensionFilter accepts files whose key is part of the selected set.
type ExtensionFilter struct {
	keys map[string]struct{}
}

// NewExtensionFilter builds a filter from normalized selection keys.
func NewExtensionFilter(keys []string) ExtensionFilter {
	set := make(map[string]struct{}, len(keys))
	for _, key := range NormalizeExtensions(keys) {
		set[key] = struct{}{}
	}
	return ExtensionFilter{keys: set}
}

// Accepts reports whether the file name should be converted.
func (extensionFilter ExtensionFilter) Accepts(name string) bool {
	if AlwaysSkipped(name) {
		return false
	}
	_, accepted := extensionFilter.keys[Key(name)]
	return accepted
}

// Keys returns the selected keys in sorted order.
func (extensionFilter ExtensionFilter) Keys() []string {
	keys := make([]string, 0, len(extensionFilter.keys))
	for key := range extensionFilter.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether no key is selected.
func (extensionFilter ExtensionFilter) Empty() bool {
	return len(extensionFilter.keys) == 0
}

// ExclusionSet holds directory names pruned from traversal.
// Matching is exact and case-sensitive.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet merges the defaults with additional directory names.
func NewExclusionSet(additional []string) ExclusionSet {
	set := make(map[string]struct{}, len(defaultExcludedDirectories)+len(additional))
	for _, name := range defaultExcludedDirectories {
		set[name] = struct{}{}
	}
	for _, name := range additional {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return ExclusionSet{names: set}
}

// Contains reports whether a directory with the given name is excluded.
func (exclusionSet ExclusionSet) Contains(name string) bool {
	_, excluded := exclusionSet.names[name]
	return excluded
}

// Names returns the excluded names in sorted order.
func (exclusionSet ExclusionSet) Names() []string {
	names := make([]string, 0, len(exclusionSet.names))
	for name := range exclusionSet.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
