// Package cleaner periodically removes attachment objects no checklist item
// references anymore, e.g. after an item's attachment was replaced or its
// project deleted.
package cleaner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/dao/query"
	"github.com/urbannest/urbannest/pkg/monitor"
	"github.com/urbannest/urbannest/pkg/objectstore"
)

// gracePeriod protects freshly uploaded objects whose URL may not be
// persisted yet.
const gracePeriod = 24 * time.Hour

type Cleaner struct {
	store *objectstore.Client
	cron  *cron.Cron
}

func New(store *objectstore.Client) *Cleaner {
	return &Cleaner{
		store: store,
		cron:  cron.New(cron.WithLocation(time.Local)),
	}
}

// Start schedules the sweep with the given cron spec and launches the
// scheduler.
func (c *Cleaner) Start(spec string) error {
	_, err := c.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := c.Sweep(ctx); err != nil {
			klog.Error("attachment sweep: ", err)
		}
	})
	if err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (c *Cleaner) Stop() {
	<-c.cron.Stop().Done()
}

// Sweep deletes stored objects that no phase row references. Soft-deleted
// rows still count as references so a restore never loses attachments.
func (c *Cleaner) Sweep(ctx context.Context) error {
	referenced, err := referencedURLs(ctx)
	if err != nil {
		return err
	}

	objects, err := c.store.List(ctx, "")
	if err != nil {
		return err
	}

	var orphans []string
	cutoff := time.Now().Add(-gracePeriod)
	for _, obj := range objects {
		if obj.UpdatedAt.After(cutoff) {
			continue
		}
		if !referenced[c.store.PublicURL(obj.Name)] {
			orphans = append(orphans, obj.Name)
		}
	}
	if len(orphans) == 0 {
		return nil
	}

	if err := c.store.Remove(ctx, orphans); err != nil {
		return err
	}
	monitor.RecordSweepDeleted(len(orphans))
	klog.Infof("attachment sweep removed %d orphaned objects", len(orphans))
	return nil
}

// referencedURLs collects every attachment URL present in any phase row.
func referencedURLs(ctx context.Context) (map[string]bool, error) {
	var rows []model.Phase
	if err := query.GetDB().WithContext(ctx).Unscoped().
		Select("items").Find(&rows).Error; err != nil {
		return nil, err
	}

	urls := make(map[string]bool)
	for _, row := range rows {
		for _, it := range row.Items.Data() {
			if it.Attachment != nil && *it.Attachment != "" {
				urls[*it.Attachment] = true
			}
		}
	}
	return urls, nil
}
