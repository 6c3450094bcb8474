package workflow

import (
	"sort"

	"github.com/affreight/shipengine/pkg/domain"
)

// SortByLegLevel orders tasks by leg_level ascending, satisfying spec
// §8 property 2. The input is not mutated.
func SortByLegLevel(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LegLevel < out[j].LegLevel })
	return out
}
