package db

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/cs2hx/core"
	"github.com/oxhq/cs2hx/models"
)

type outputEntry struct {
	Path    string `json:"path"`
	Written bool   `json:"written"`
	Size    int    `json:"size"`
}

type runOptions struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	Workers int      `json:"workers,omitempty"`
	Indent  string   `json:"indent,omitempty"`
	Diff    bool     `json:"diff,omitempty"`
}

// RecordRun stores result and its units in one transaction and returns the
// saved run.
func RecordRun(db *gorm.DB, result *core.RunResult, opts core.Options) (*models.Run, error) {
	options, err := json.Marshal(runOptions{
		Include: opts.Scope.Include,
		Exclude: opts.Scope.Exclude,
		Workers: opts.Workers,
		Indent:  opts.Indent,
		Diff:    opts.Diff,
	})
	if err != nil {
		return nil, fmt.Errorf("RecordRun options: %w", err)
	}

	run := &models.Run{
		ID:           uuid.NewString(),
		Scope:        opts.Scope.Path,
		OutDir:       opts.OutDir,
		DryRun:       result.DryRun,
		Translated:   result.Translated,
		Failed:       result.Failed,
		FilesWritten: result.FilesWritten,
		DurationMS:   result.DurationMS,
		Options:      datatypes.JSON(options),
	}
	for _, u := range result.Units {
		outputs := make([]outputEntry, len(u.Outputs))
		for i, o := range u.Outputs {
			outputs[i] = outputEntry{Path: o.Path, Written: o.Written, Size: o.Size}
		}
		encoded, err := json.Marshal(outputs)
		if err != nil {
			return nil, fmt.Errorf("RecordRun outputs for %s: %w", u.Path, err)
		}
		run.Units = append(run.Units, models.UnitRecord{
			ID:         uuid.NewString(),
			RunID:      run.ID,
			Path:       u.Path,
			Language:   u.Language,
			Code:       string(u.Code),
			Error:      u.Error,
			Outputs:    datatypes.JSON(encoded),
			DurationMS: u.DurationMS,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		return nil, fmt.Errorf("RecordRun insert: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first, with their units.
func RecentRuns(db *gorm.DB, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []models.Run
	err := db.Preload("Units", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("path")
	}).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("RecentRuns: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed.
func PruneRuns(db *gorm.DB, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var ids []string
	err := db.Model(&models.Run{}).Order("started_at DESC").Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("PruneRuns select: %w", err)
	}
	if len(ids) <= keep {
		return 0, nil
	}
	stale := ids[keep:]

	var removed int64
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id IN ?", stale).Delete(&models.UnitRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", stale).Delete(&models.Run{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("PruneRuns delete: %w", err)
	}
	return removed, nil
}
