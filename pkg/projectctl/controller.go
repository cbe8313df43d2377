// Package projectctl owns the project lifecycle: create, load and update of a
// project together with its floors and phase checklists. All multi-row writes
// run in a single transaction; all input is validated before the first write.
package projectctl

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/pkg/checklist"
	"github.com/urbannest/urbannest/pkg/taxonomy"
)

// Controller executes project lifecycle operations against the database.
type Controller struct {
	db *gorm.DB
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// FloorInput is one floor as submitted by the builder.
type FloorInput struct {
	FloorNumber    int                   `json:"floorNumber"`
	NumApartments  int                   `json:"numApartments"`
	ApartmentTypes []model.ApartmentType `json:"apartmentTypes"`
}

// PhaseInput is one phase checklist as submitted by the builder. Key must be
// a taxonomy phase key; Items is stored as-is and reconciled on every load.
type PhaseInput struct {
	Key        taxonomy.PhaseKey `json:"key"`
	Enabled    bool              `json:"enabled"`
	Percentage float64           `json:"percentage"`
	Items      []taxonomy.Item   `json:"items"`
}

// ProjectInput carries the scalar fields shared by create and update.
type ProjectInput struct {
	ProjectName      string     `json:"projectName"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	TotalSqFeet      *float64   `json:"totalSqFeet"`
	ConstructionType *string    `json:"constructionType"`
	NumFloors        int        `json:"numFloors"`
	EstimatedCost    *float64   `json:"estimatedCost"`
	Floors           []FloorInput
	Phases           []PhaseInput
}

// ProjectView is the load result: the reconciled, display-ready project.
type ProjectView struct {
	Project   model.Project               `json:"project"`
	Floors    []model.Floor               `json:"floors"`
	Phases    []checklist.ReconciledPhase `json:"phases"`
	TotalCost float64                     `json:"totalCost"`
}

// validate checks every lifecycle invariant of in. It never touches the
// database; callers rely on a returned error meaning nothing was written.
func validate(in *ProjectInput) error {
	if in.ProjectName == "" {
		return invalid("projectName", "must not be empty")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return invalid("endDate", "must not be before startDate")
	}
	if in.TotalSqFeet != nil && *in.TotalSqFeet < 0 {
		return invalid("totalSqFeet", "must not be negative")
	}
	if in.EstimatedCost != nil && *in.EstimatedCost < 0 {
		return invalid("estimatedCost", "must not be negative")
	}
	if in.NumFloors < 0 {
		return invalid("numFloors", "must not be negative")
	}
	if len(in.Floors) > in.NumFloors {
		return invalid("floors", "%d floors submitted for a %d-floor project", len(in.Floors), in.NumFloors)
	}

	seen := make(map[int]bool, len(in.Floors))
	for _, f := range in.Floors {
		if f.FloorNumber < 1 || f.FloorNumber > in.NumFloors {
			return invalid("floors", "floor number %d outside 1..%d", f.FloorNumber, in.NumFloors)
		}
		if seen[f.FloorNumber] {
			return invalid("floors", "duplicate floor number %d", f.FloorNumber)
		}
		seen[f.FloorNumber] = true
		if f.NumApartments < 0 {
			return invalid("floors", "floor %d: numApartments must not be negative", f.FloorNumber)
		}
		for _, t := range f.ApartmentTypes {
			if !model.ValidApartmentType(t) {
				return invalid("floors", "floor %d: unknown apartment type %q", f.FloorNumber, t)
			}
		}
	}

	return validatePhases(in.Phases)
}

func validatePhases(phases []PhaseInput) error {
	seenPhase := make(map[taxonomy.PhaseKey]bool, len(phases))
	for _, p := range phases {
		if _, err := taxonomy.Get(p.Key); err != nil {
			return invalid("phases", "unknown phase key %q", p.Key)
		}
		if seenPhase[p.Key] {
			return invalid("phases", "duplicate phase %q", p.Key)
		}
		seenPhase[p.Key] = true
		if p.Percentage < 0 || p.Percentage > 100 {
			return invalid("phases", "phase %q: percentage outside 0..100", p.Key)
		}
		for _, it := range p.Items {
			if it.Item == "" {
				return invalid("phases", "phase %q: item with empty name", p.Key)
			}
			if it.Status != "" && !taxonomy.ValidStatus(it.Status) {
				return invalid("phases", "phase %q: unknown status %q", p.Key, it.Status)
			}
			if it.Cost != nil && *it.Cost < 0 {
				return invalid("phases", "phase %q: item %q cost must not be negative", p.Key, it.Item)
			}
		}
	}
	return nil
}

// CreateProject validates in, then inserts the project, its floors and one
// phase row per taxonomy phase in a single transaction. Phases absent from
// in.Phases start enabled with fully-defaulted checklists.
func (c *Controller) CreateProject(ctx context.Context, userID uint, in *ProjectInput) (uint, error) {
	if err := validate(in); err != nil {
		return 0, err
	}

	project := scalarProject(userID, in)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if len(in.Floors) > 0 {
			floors := floorRows(project.ID, in.Floors)
			if err := tx.Create(&floors).Error; err != nil {
				return err
			}
		}
		phases := phaseRows(project.ID, in.Phases)
		return tx.Create(&phases).Error
	})
	if err != nil {
		return 0, err
	}
	return project.ID, nil
}

// LoadProject returns the reconciled view of a project. The missing/forbidden
// distinction is deliberate: a row that does not exist yields ErrNotFound, a
// row owned by someone else yields ErrForbidden.
func (c *Controller) LoadProject(ctx context.Context, userID, projectID uint) (*ProjectView, error) {
	db := c.db.WithContext(ctx)

	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if project.UserID != userID {
		return nil, ErrForbidden
	}

	var floors []model.Floor
	if err := db.Where("project_id = ?", projectID).
		Order("floor_number").Find(&floors).Error; err != nil {
		return nil, err
	}

	var rows []model.Phase
	if err := db.Where("project_id = ?", projectID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]model.Phase, len(rows))
	for _, r := range rows {
		byName[r.PhaseName] = r
	}

	// Always emit the seven taxonomy phases in canonical order, merging in
	// whatever rows exist. Percentage is recomputed from item completions.
	phases := make([]checklist.ReconciledPhase, 0, len(taxonomy.Phases()))
	for _, def := range taxonomy.Phases() {
		enabled := true
		var persisted []taxonomy.Item
		if row, ok := byName[def.Name]; ok {
			enabled = row.Enabled
			persisted = row.Items.Data()
		}
		rp := checklist.Reconcile(def, persisted)
		rp.Enabled = enabled
		rp.Percentage = checklist.PhasePercentage(rp)
		phases = append(phases, rp)
	}

	return &ProjectView{
		Project:   project,
		Floors:    floors,
		Phases:    phases,
		TotalCost: checklist.TotalCost(phases),
	}, nil
}

// UpdateProject validates in, re-checks ownership, then rewrites the project
// scalars and replaces floors and phases in one transaction. Children are
// upserted on their natural keys so concurrent readers never observe a
// deleted-but-not-yet-reinserted state.
func (c *Controller) UpdateProject(ctx context.Context, userID, projectID uint, in *ProjectInput) error {
	if err := validate(in); err != nil {
		return err
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if project.UserID != userID {
			return ErrForbidden
		}

		updated := scalarProject(userID, in)
		updated.ID = projectID
		if err := tx.Model(&project).Select(
			"project_name", "start_date", "end_date", "total_sq_feet",
			"construction_type", "num_floors", "estimated_cost",
		).Updates(updated).Error; err != nil {
			return err
		}

		if err := replaceFloors(tx, projectID, in.Floors); err != nil {
			return err
		}
		return replacePhases(tx, projectID, in.Phases)
	})
}

// SaveProjectPhases replaces only the phase checklists of a project, leaving
// scalars and floors untouched.
func (c *Controller) SaveProjectPhases(ctx context.Context, userID, projectID uint, phases []PhaseInput) error {
	if err := validatePhases(phases); err != nil {
		return err
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if project.UserID != userID {
			return ErrForbidden
		}
		return replacePhases(tx, projectID, phases)
	})
}

// ListProjects returns the caller's projects, newest first.
func (c *Controller) ListProjects(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func newJSON[T any](v T) datatypes.JSONType[T] {
	return datatypes.NewJSONType(v)
}

func scalarProject(userID uint, in *ProjectInput) *model.Project {
	return &model.Project{
		UserID:           userID,
		ProjectName:      in.ProjectName,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		TotalSqFeet:      in.TotalSqFeet,
		ConstructionType: in.ConstructionType,
		NumFloors:        in.NumFloors,
		EstimatedCost:    in.EstimatedCost,
	}
}

func floorRows(projectID uint, floors []FloorInput) []model.Floor {
	rows := make([]model.Floor, 0, len(floors))
	for _, f := range floors {
		rows = append(rows, model.Floor{
			ProjectID:      projectID,
			FloorNumber:    f.FloorNumber,
			NumApartments:  f.NumApartments,
			ApartmentTypes: newJSON(f.ApartmentTypes),
		})
	}
	return rows
}

// phaseRows builds the full seven-row phase set for a project, taking
// submitted phases where present and taxonomy defaults otherwise.
func phaseRows(projectID uint, phases []PhaseInput) []model.Phase {
	byKey := make(map[taxonomy.PhaseKey]PhaseInput, len(phases))
	for _, p := range phases {
		byKey[p.Key] = p
	}
	rows := make([]model.Phase, 0, len(taxonomy.Phases()))
	for _, def := range taxonomy.Phases() {
		row := model.Phase{
			ProjectID: projectID,
			PhaseName: def.Name,
			Enabled:   true,
			Items:     newJSON(taxonomy.DefaultItems(def)),
		}
		if in, ok := byKey[def.Key]; ok {
			row.Enabled = in.Enabled
			row.Percentage = in.Percentage
			if in.Items != nil {
				row.Items = newJSON(in.Items)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// replaceFloors swaps a project's floor set inside tx: upsert on the
// (project_id, floor_number) natural key, then hard-delete rows no longer in
// the set. Order matters; upsert first keeps surviving rows present at every
// point of the transaction.
func replaceFloors(tx *gorm.DB, projectID uint, floors []FloorInput) error {
	if len(floors) > 0 {
		rows := floorRows(projectID, floors)
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}, {Name: "floor_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"num_apartments", "apartment_types", "updated_at", "deleted_at",
			}),
		}).Create(&rows).Error
		if err != nil {
			return err
		}
	}

	stale := tx.Unscoped().Where("project_id = ?", projectID)
	if len(floors) > 0 {
		numbers := make([]int, 0, len(floors))
		for _, f := range floors {
			numbers = append(numbers, f.FloorNumber)
		}
		stale = stale.Where("floor_number NOT IN ?", numbers)
	}
	return stale.Delete(&model.Floor{}).Error
}

// replacePhases upserts phase rows on (project_id, phase_name). The phase set
// is fixed by the taxonomy, so no stale-row delete is needed.
func replacePhases(tx *gorm.DB, projectID uint, phases []PhaseInput) error {
	if len(phases) == 0 {
		return nil
	}
	rows := make([]model.Phase, 0, len(phases))
	for _, p := range phases {
		def, err := taxonomy.Get(p.Key)
		if err != nil {
			return invalid("phases", "unknown phase key %q", p.Key)
		}
		items := p.Items
		if items == nil {
			items = taxonomy.DefaultItems(def)
		}
		rows = append(rows, model.Phase{
			ProjectID:  projectID,
			PhaseName:  def.Name,
			Enabled:    p.Enabled,
			Percentage: p.Percentage,
			Items:      newJSON(items),
		})
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "phase_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"enabled", "percentage", "items", "updated_at", "deleted_at",
		}),
	}).Create(&rows).Error
}
