package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhasesTable(t *testing.T) {
	defs := Phases()
	require.Len(t, defs, 7)

	wantOrder := []PhaseKey{
		LandPreConstruction,
		FoundationStructural,
		Superstructure,
		InternalExternal,
		FinalInstallations,
		TestingQuality,
		HandoverCompletion,
	}
	for i, def := range defs {
		assert.Equal(t, wantOrder[i], def.Key)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.SubItems)
	}

	// Display names are unique, they key the persisted phase rows.
	names := make(map[string]bool)
	for _, def := range defs {
		assert.False(t, names[def.Name], "duplicate phase name %q", def.Name)
		names[def.Name] = true
	}
}

func TestSubItemNamesUniqueWithinPhase(t *testing.T) {
	for _, def := range Phases() {
		seen := make(map[string]bool)
		for _, name := range def.SubItems {
			assert.False(t, seen[name], "phase %q repeats sub-item %q", def.Key, name)
			seen[name] = true
		}
	}
}

func TestGet(t *testing.T) {
	def, err := Get(Superstructure)
	require.NoError(t, err)
	assert.Equal(t, "Superstructure", def.Name)

	_, err = Get("no-such-phase")
	assert.Error(t, err)
}

func TestGetByName(t *testing.T) {
	def, err := GetByName("Land & Pre-Construction")
	require.NoError(t, err)
	assert.Equal(t, LandPreConstruction, def.Key)
	assert.Len(t, def.SubItems, 20)

	_, err = GetByName("Land")
	assert.Error(t, err)
}

func TestDefaultItems(t *testing.T) {
	def, err := Get(HandoverCompletion)
	require.NoError(t, err)

	items := DefaultItems(def)
	require.Len(t, items, len(def.SubItems))
	for i, it := range items {
		assert.Equal(t, def.SubItems[i], it.Item)
		assert.Nil(t, it.Cost)
		assert.Nil(t, it.Attachment)
		assert.Equal(t, StatusPending, it.Status)
		assert.Equal(t, DefaultCompletion, it.Completion)
		assert.Empty(t, it.Comments)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Done"))
}
