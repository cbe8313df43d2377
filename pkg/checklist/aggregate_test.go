package checklist

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbannest/urbannest/pkg/taxonomy"
)

func TestParseCompletion(t *testing.T) {
	cases := map[string]int{
		"0":     0,
		"42":    42,
		"100":   100,
		" 80 ":  80,
		"75%":   75,
		"":      0,
		"abc":   0,
		"12.5":  0,
		"101":   101,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseCompletion(in), "input %q", in)
	}
}

func TestPhasePercentageDefaults(t *testing.T) {
	def := mustGet(t, taxonomy.FoundationStructural)
	rp := Reconcile(def, nil)
	assert.Equal(t, 0, PhasePercentage(rp))
}

func TestPhasePercentageAllComplete(t *testing.T) {
	def := mustGet(t, taxonomy.TestingQuality)

	persisted := make([]taxonomy.Item, 0, len(def.SubItems))
	for _, name := range def.SubItems {
		persisted = append(persisted, taxonomy.Item{
			Item: name, Status: taxonomy.StatusCompleted, Completion: "100",
		})
	}
	rp := Reconcile(def, persisted)
	assert.Equal(t, 100, PhasePercentage(rp))
}

func TestPhasePercentageRoundedMean(t *testing.T) {
	rp := ReconciledPhase{
		Items: []taxonomy.Item{
			{Item: "a", Completion: "100"},
			{Item: "b", Completion: "50"},
			{Item: "c", Completion: "0"},
		},
	}
	// mean 50
	assert.Equal(t, 50, PhasePercentage(rp))

	rp.Items = append(rp.Items, taxonomy.Item{Item: "d", Completion: "1"})
	// mean 37.75 rounds to 38
	assert.Equal(t, 38, PhasePercentage(rp))
}

func TestPhasePercentageEmpty(t *testing.T) {
	assert.Equal(t, 0, PhasePercentage(ReconciledPhase{}))
}

func TestTotalCostAdditivity(t *testing.T) {
	foundation := mustGet(t, taxonomy.FoundationStructural)
	handover := mustGet(t, taxonomy.HandoverCompletion)

	p1 := Reconcile(foundation, []taxonomy.Item{
		{Item: foundation.SubItems[0], Cost: lo.ToPtr(1000.0)},
		{Item: foundation.SubItems[1], Cost: lo.ToPtr(2500.0)},
	})
	p2 := Reconcile(handover, []taxonomy.Item{
		{Item: handover.SubItems[0], Cost: lo.ToPtr(499.5)},
		{Item: "Orphaned Expense", Cost: lo.ToPtr(1.5)},
	})

	require.InDelta(t, 3500.0, TotalCost([]ReconciledPhase{p1}), 1e-9)
	require.InDelta(t, 501.0, TotalCost([]ReconciledPhase{p2}), 1e-9)
	// Whole equals the sum of its parts; orphaned costs count.
	assert.InDelta(t, 4001.0, TotalCost([]ReconciledPhase{p1, p2}), 1e-9)
}

func TestTotalCostUnsetIsZero(t *testing.T) {
	def := mustGet(t, taxonomy.Superstructure)
	rp := Reconcile(def, nil)
	assert.Zero(t, TotalCost([]ReconciledPhase{rp}))
}
