package checklist

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbannest/urbannest/pkg/taxonomy"
)

func mustGet(t *testing.T, key taxonomy.PhaseKey) taxonomy.PhaseDefinition {
	t.Helper()
	def, err := taxonomy.Get(key)
	require.NoError(t, err)
	return def
}

func TestReconcileLengthInvariant(t *testing.T) {
	def := mustGet(t, taxonomy.FoundationStructural)

	cases := map[string][]taxonomy.Item{
		"nil persisted":   nil,
		"empty persisted": {},
		"partial": {
			{Item: def.SubItems[0], Status: taxonomy.StatusCompleted, Completion: "100"},
		},
		"item with empty fields": {
			{Item: def.SubItems[1]},
		},
		"longer than definition": append(
			taxonomy.DefaultItems(def),
			taxonomy.Item{Item: "Legacy Row", Completion: "50"},
		),
	}

	for name, persisted := range cases {
		rp := Reconcile(def, persisted)
		assert.Len(t, rp.Items, len(def.SubItems), name)
		for i, it := range rp.Items {
			assert.Equal(t, def.SubItems[i], it.Item, name)
		}
	}
}

func TestReconcilePreservesPersistedFields(t *testing.T) {
	def := mustGet(t, taxonomy.Superstructure)

	persisted := []taxonomy.Item{
		{
			Item:       def.SubItems[2],
			Cost:       lo.ToPtr(150000.0),
			Attachment: lo.ToPtr("https://store.example.com/object/public/attachments/a.pdf"),
			Status:     taxonomy.StatusInProgress,
			Completion: "40",
			Comments:   "slab poured on 3rd floor",
		},
	}

	rp := Reconcile(def, persisted)
	got := rp.Items[2]
	assert.Equal(t, 150000.0, *got.Cost)
	assert.Equal(t, *persisted[0].Attachment, *got.Attachment)
	assert.Equal(t, taxonomy.StatusInProgress, got.Status)
	assert.Equal(t, "40", got.Completion)
	assert.Equal(t, "slab poured on 3rd floor", got.Comments)

	// Untouched positions stay fully defaulted.
	assert.Equal(t, taxonomy.DefaultItem(def.SubItems[0]), rp.Items[0])
}

func TestReconcileEmptyFieldsFallBackToDefaults(t *testing.T) {
	def := mustGet(t, taxonomy.TestingQuality)

	persisted := []taxonomy.Item{
		{Item: def.SubItems[0], Status: "", Completion: "", Comments: ""},
		{Item: def.SubItems[1], Status: "Bogus"},
	}
	rp := Reconcile(def, persisted)

	assert.Equal(t, taxonomy.StatusPending, rp.Items[0].Status)
	assert.Equal(t, taxonomy.DefaultCompletion, rp.Items[0].Completion)
	// An unknown stored status is treated as never set.
	assert.Equal(t, taxonomy.StatusPending, rp.Items[1].Status)
}

func TestReconcileOrphans(t *testing.T) {
	def := mustGet(t, taxonomy.HandoverCompletion)

	persisted := []taxonomy.Item{
		{Item: "Retired Checklist Row", Cost: lo.ToPtr(500.0), Completion: "100"},
		{Item: def.SubItems[0], Completion: "80"},
	}
	rp := Reconcile(def, persisted)

	require.Len(t, rp.Orphaned, 1)
	assert.Equal(t, "Retired Checklist Row", rp.Orphaned[0].Item)
	assert.Equal(t, 500.0, *rp.Orphaned[0].Cost)
	assert.Len(t, rp.AllItems(), len(def.SubItems)+1)
}

func TestReconcileDuplicateNamesFirstWins(t *testing.T) {
	def := mustGet(t, taxonomy.FoundationStructural)

	persisted := []taxonomy.Item{
		{Item: def.SubItems[0], Completion: "30"},
		{Item: def.SubItems[0], Completion: "90"},
	}
	rp := Reconcile(def, persisted)
	assert.Equal(t, "30", rp.Items[0].Completion)
	assert.Empty(t, rp.Orphaned)
}

func TestReconcileIdempotent(t *testing.T) {
	def := mustGet(t, taxonomy.InternalExternal)

	persisted := []taxonomy.Item{
		{Item: def.SubItems[3], Cost: lo.ToPtr(20000.0), Status: taxonomy.StatusCompleted, Completion: "100"},
		{Item: "Removed Item", Comments: "kept for the record"},
	}

	first := Reconcile(def, persisted)
	second := Reconcile(def, first.AllItems())
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Orphaned, second.Orphaned)
}

func TestReconcileLandPhaseTwentyItems(t *testing.T) {
	def := mustGet(t, taxonomy.LandPreConstruction)
	require.Len(t, def.SubItems, 20)

	rp := Reconcile(def, []taxonomy.Item{
		{Item: "Soil Testing & Surveying", Status: taxonomy.StatusCompleted, Completion: "100"},
	})
	assert.Len(t, rp.Items, 20)
	assert.Equal(t, taxonomy.StatusCompleted, rp.Items[3].Status)
}
