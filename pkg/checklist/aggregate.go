package checklist

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/urbannest/urbannest/pkg/taxonomy"
)

// parseCompletion turns the string-encoded completion into an integer.
// Unparseable or missing values count as 0; a trailing percent sign from old
// records is tolerated.
func parseCompletion(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// PhasePercentage is the rounded mean of item completion values. An empty
// item list yields 0.
func PhasePercentage(p ReconciledPhase) int {
	items := p.AllItems()
	if len(items) == 0 {
		return 0
	}
	sum := lo.SumBy(items, func(it taxonomy.Item) int {
		return parseCompletion(it.Completion)
	})
	return int(math.Round(float64(sum) / float64(len(items))))
}

// TotalCost sums item costs across all phases, orphaned items included.
// Unset costs count as 0.
func TotalCost(phases []ReconciledPhase) float64 {
	return lo.SumBy(phases, func(p ReconciledPhase) float64 {
		return lo.SumBy(p.AllItems(), func(it taxonomy.Item) float64 {
			return lo.FromPtr(it.Cost)
		})
	})
}
