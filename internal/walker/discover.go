package walker

import (
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/filter"
	"github.com/temirov/mdtree/internal/types"
)

// DiscoverExtensions counts the files below root per selection key, honouring
// the same exclusion and symlink rules as Walk. Results are ordered by count,
// highest first, then by key.
func DiscoverExtensions(root string, exclusions filter.ExclusionSet, logger *zap.Logger) ([]types.ExtensionCount, error) {
	discoveryWalker := NewUnfiltered(exclusions, logger)
	entries, walkError := discoveryWalker.Walk(root)
	if walkError != nil {
		return nil, walkError
	}

	countsByKey := map[string]int{}
	for _, entry := range Files(entries) {
		countsByKey[filter.Key(entry.Name)]++
	}

	counts := make([]types.ExtensionCount, 0, len(countsByKey))
	for key, count := range countsByKey {
		counts = append(counts, types.ExtensionCount{Key: key, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Key < counts[j].Key
	})
	return counts, nil
}
