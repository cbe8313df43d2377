package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/urbannest/urbannest/pkg/taxonomy"
)

// Project is a builder-owned construction project. Floors and Phases are
// exclusively owned children; the lifecycle controller replaces them as a
// whole on every save.
type Project struct {
	gorm.Model
	UserID           uint       `gorm:"index;not null;comment:owning builder"`
	ProjectName      string     `gorm:"type:varchar(128);not null;comment:project name"`
	StartDate        *time.Time `gorm:"type:date"`
	EndDate          *time.Time `gorm:"type:date"`
	TotalSqFeet      *float64   `gorm:"comment:total built-up area"`
	ConstructionType *string    `gorm:"type:varchar(64);comment:residential, commercial, ..."`
	NumFloors        int        `gorm:"not null;default:0"`
	EstimatedCost    *float64   `gorm:"comment:builder-entered estimate, distinct from computed total"`
	Floors           []Floor
	Phases           []Phase
}

// Floor describes one floor of a project. Identity across edits is the
// natural key (project_id, floor_number).
type Floor struct {
	gorm.Model
	ProjectID      uint                                `gorm:"uniqueIndex:idx_project_floor;not null"`
	FloorNumber    int                                 `gorm:"uniqueIndex:idx_project_floor;not null;comment:1..NumFloors"`
	NumApartments  int                                 `gorm:"not null;default:0"`
	ApartmentTypes datatypes.JSONType[[]ApartmentType] `gorm:"comment:unit layouts on this floor"`
}

// Phase is the persisted checklist of one construction phase. PhaseName
// matches a taxonomy display name; Items is the raw stored list, reconciled
// against the taxonomy on every load.
type Phase struct {
	gorm.Model
	ProjectID  uint                                `gorm:"uniqueIndex:idx_project_phase;not null"`
	PhaseName  string                              `gorm:"uniqueIndex:idx_project_phase;type:varchar(64);not null;comment:taxonomy display name"`
	Enabled    bool                                `gorm:"not null;default:true"`
	Percentage float64                             `gorm:"not null;default:0;comment:builder-entered phase percentage"`
	Items      datatypes.JSONType[[]taxonomy.Item] `gorm:"comment:checklist items"`
}
