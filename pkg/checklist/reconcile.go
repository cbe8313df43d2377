// Package checklist merges persisted phase rows with the fixed taxonomy and
// computes the derived aggregates shown on project pages.
package checklist

import "github.com/urbannest/urbannest/pkg/taxonomy"

// ReconciledPhase is the display/edit-ready view of one phase. Items always
// has exactly one entry per taxonomy sub-item, in taxonomy order. Persisted
// items whose name no longer matches any current sub-item are preserved in
// Orphaned rather than dropped.
type ReconciledPhase struct {
	Key        taxonomy.PhaseKey `json:"key"`
	Name       string            `json:"name"`
	Enabled    bool              `json:"enabled"`
	Percentage int               `json:"percentage"`
	Items      []taxonomy.Item   `json:"items"`
	Orphaned   []taxonomy.Item   `json:"orphaned,omitempty"`
}

// Reconcile merges persisted items into the phase definition. Matching is by
// item name: each definition sub-item takes the persisted item of the same
// name when present, falling back field by field to the default for any
// nil/empty field. The operation is idempotent — reconciling its own output
// yields the same result.
func Reconcile(def taxonomy.PhaseDefinition, persisted []taxonomy.Item) ReconciledPhase {
	byName := make(map[string]taxonomy.Item, len(persisted))
	matched := make(map[string]bool, len(persisted))
	for _, it := range persisted {
		// First occurrence wins on duplicate names in stored data.
		if _, ok := byName[it.Item]; !ok {
			byName[it.Item] = it
		}
	}

	items := make([]taxonomy.Item, 0, len(def.SubItems))
	for _, name := range def.SubItems {
		def := taxonomy.DefaultItem(name)
		stored, ok := byName[name]
		if !ok {
			items = append(items, def)
			continue
		}
		matched[name] = true
		items = append(items, mergeItem(def, stored))
	}

	// Keep persisted items the current taxonomy no longer defines, in their
	// stored order.
	var orphaned []taxonomy.Item
	seen := make(map[string]bool, len(persisted))
	for _, it := range persisted {
		if matched[it.Item] || seen[it.Item] {
			continue
		}
		seen[it.Item] = true
		orphaned = append(orphaned, mergeItem(taxonomy.DefaultItem(it.Item), it))
	}

	return ReconciledPhase{
		Key:      def.Key,
		Name:     def.Name,
		Items:    items,
		Orphaned: orphaned,
	}
}

// mergeItem overlays a stored item onto its default, field by field. A stored
// nil/empty field means "never edited" and keeps the default.
func mergeItem(def, stored taxonomy.Item) taxonomy.Item {
	out := def
	if stored.Cost != nil {
		out.Cost = stored.Cost
	}
	if stored.Attachment != nil && *stored.Attachment != "" {
		out.Attachment = stored.Attachment
	}
	if stored.Status != "" && taxonomy.ValidStatus(stored.Status) {
		out.Status = stored.Status
	}
	if stored.Completion != "" {
		out.Completion = stored.Completion
	}
	if stored.Comments != "" {
		out.Comments = stored.Comments
	}
	return out
}

// AllItems returns defined plus orphaned items of a reconciled phase.
func (p ReconciledPhase) AllItems() []taxonomy.Item {
	if len(p.Orphaned) == 0 {
		return p.Items
	}
	all := make([]taxonomy.Item, 0, len(p.Items)+len(p.Orphaned))
	all = append(all, p.Items...)
	all = append(all, p.Orphaned...)
	return all
}
