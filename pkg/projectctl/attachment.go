package projectctl

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/pkg/checklist"
	"github.com/urbannest/urbannest/pkg/taxonomy"
)

// SetItemAttachment sets or clears (url nil) the attachment URL of one
// checklist item and returns the URL it replaced, if any, so the caller can
// drop the old object. The phase row is created from taxonomy defaults when
// the project predates it.
func (c *Controller) SetItemAttachment(
	ctx context.Context,
	userID, projectID uint,
	key taxonomy.PhaseKey,
	itemName string,
	url *string,
) (previous *string, err error) {
	def, err := taxonomy.Get(key)
	if err != nil {
		return nil, invalid("phase", "unknown phase key %q", key)
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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

		var row model.Phase
		var persisted []taxonomy.Item
		found := true
		if err := tx.Where("project_id = ? AND phase_name = ?", projectID, def.Name).
			First(&row).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			found = false
			row = model.Phase{ProjectID: projectID, PhaseName: def.Name, Enabled: true}
		} else {
			persisted = row.Items.Data()
		}

		// Operate on the reconciled list so the item exists even when the
		// stored row never mentioned it.
		rp := checklist.Reconcile(def, persisted)
		items := rp.AllItems()
		idx := -1
		for i := range items {
			if items[i].Item == itemName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalid("item", "phase %q has no item %q", key, itemName)
		}

		previous = items[idx].Attachment
		items[idx].Attachment = url

		row.Items = newJSON(items)
		if found {
			return tx.Model(&model.Phase{}).Where("id = ?", row.ID).
				Update("items", row.Items).Error
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}
