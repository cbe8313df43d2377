package projectctl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/pkg/taxonomy"
)

func validInput() *ProjectInput {
	return &ProjectInput{
		ProjectName: "Sunrise Heights",
		NumFloors:   2,
		Floors: []FloorInput{
			{FloorNumber: 1, NumApartments: 4, ApartmentTypes: []model.ApartmentType{model.Apartment2BHK}},
			{FloorNumber: 2, NumApartments: 4, ApartmentTypes: []model.ApartmentType{model.Apartment3BHK}},
		},
	}
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	assert.NoError(t, validate(validInput()))
}

func TestValidateRejections(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)

	cases := []struct {
		name   string
		mutate func(*ProjectInput)
		field  string
	}{
		{"empty name", func(in *ProjectInput) { in.ProjectName = "" }, "projectName"},
		{"end before start", func(in *ProjectInput) {
			in.StartDate, in.EndDate = &start, &end
		}, "endDate"},
		{"negative area", func(in *ProjectInput) { in.TotalSqFeet = lo.ToPtr(-1.0) }, "totalSqFeet"},
		{"negative estimate", func(in *ProjectInput) { in.EstimatedCost = lo.ToPtr(-0.01) }, "estimatedCost"},
		{"negative floors", func(in *ProjectInput) { in.NumFloors = -1 }, "numFloors"},
		{"too many floors", func(in *ProjectInput) { in.NumFloors = 1 }, "floors"},
		{"floor number out of range", func(in *ProjectInput) {
			in.Floors[1].FloorNumber = 3
		}, "floors"},
		{"duplicate floor number", func(in *ProjectInput) {
			in.Floors[1].FloorNumber = 1
		}, "floors"},
		{"negative apartments", func(in *ProjectInput) {
			in.Floors[0].NumApartments = -2
		}, "floors"},
		{"unknown apartment type", func(in *ProjectInput) {
			in.Floors[0].ApartmentTypes = []model.ApartmentType{"5BHK"}
		}, "floors"},
		{"unknown phase key", func(in *ProjectInput) {
			in.Phases = []PhaseInput{{Key: "penthouse"}}
		}, "phases"},
		{"duplicate phase", func(in *ProjectInput) {
			in.Phases = []PhaseInput{
				{Key: taxonomy.Superstructure},
				{Key: taxonomy.Superstructure},
			}
		}, "phases"},
		{"percentage out of range", func(in *ProjectInput) {
			in.Phases = []PhaseInput{{Key: taxonomy.Superstructure, Percentage: 101}}
		}, "phases"},
		{"unknown item status", func(in *ProjectInput) {
			in.Phases = []PhaseInput{{
				Key:   taxonomy.Superstructure,
				Items: []taxonomy.Item{{Item: "Roof Slab Construction", Status: "Almost"}},
			}}
		}, "phases"},
		{"negative item cost", func(in *ProjectInput) {
			in.Phases = []PhaseInput{{
				Key:   taxonomy.Superstructure,
				Items: []taxonomy.Item{{Item: "Roof Slab Construction", Cost: lo.ToPtr(-5.0)}},
			}}
		}, "phases"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)

			err := validate(in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

// A validation failure must be raised before the controller touches the
// database; a nil DB proves nothing was written.
func TestCreateProjectValidatesBeforeAnyWrite(t *testing.T) {
	ctl := NewController(nil)

	in := validInput()
	in.ProjectName = ""
	_, err := ctl.CreateProject(context.Background(), 1, in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateProjectValidatesBeforeAnyWrite(t *testing.T) {
	ctl := NewController(nil)

	in := validInput()
	in.Floors[0].FloorNumber = 99
	err := ctl.UpdateProject(context.Background(), 1, 1, in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPhaseRowsSeedsAllSevenPhases(t *testing.T) {
	rows := phaseRows(42, nil)
	require.Len(t, rows, 7)

	for i, def := range taxonomy.Phases() {
		assert.Equal(t, uint(42), rows[i].ProjectID)
		assert.Equal(t, def.Name, rows[i].PhaseName)
		assert.True(t, rows[i].Enabled)
		assert.Zero(t, rows[i].Percentage)
		assert.Len(t, rows[i].Items.Data(), len(def.SubItems))
	}
}

func TestPhaseRowsMergesSubmittedPhases(t *testing.T) {
	items := []taxonomy.Item{
		{Item: "Excavation & Groundwork", Status: taxonomy.StatusCompleted, Completion: "100"},
	}
	rows := phaseRows(7, []PhaseInput{
		{Key: taxonomy.FoundationStructural, Enabled: false, Percentage: 12.5, Items: items},
	})
	require.Len(t, rows, 7)

	foundation := rows[1]
	assert.Equal(t, "Foundation & Structural", foundation.PhaseName)
	assert.False(t, foundation.Enabled)
	assert.Equal(t, 12.5, foundation.Percentage)
	assert.Equal(t, items, foundation.Items.Data())

	// The other six fall back to taxonomy defaults.
	assert.True(t, rows[0].Enabled)
	assert.Len(t, rows[0].Items.Data(), 20)
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalid("floors", "duplicate floor number %d", 3)
	assert.Equal(t, "invalid floors: duplicate floor number 3", err.Error())
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFloorRows(t *testing.T) {
	rows := floorRows(9, validInput().Floors)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(9), rows[0].ProjectID)
	assert.Equal(t, 1, rows[0].FloorNumber)
	assert.Equal(t, []model.ApartmentType{model.Apartment2BHK}, rows[0].ApartmentTypes.Data())
}
