package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one recorded translate invocation.
type Run struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StartedAt time.Time `gorm:"autoCreateTime;index"`

	// Invocation
	Scope  string `gorm:"type:text;not null"` // file or directory translated
	OutDir string `gorm:"type:text"`
	DryRun bool   `gorm:"default:false"`

	// Statistics
	Translated   int `gorm:"default:0"`
	Failed       int `gorm:"default:0"`
	FilesWritten int `gorm:"default:0"`
	DurationMS   int64

	// Include/exclude patterns, workers, indent
	Options datatypes.JSON

	Units []UnitRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// UnitRecord is the outcome of one source file within a run.
type UnitRecord struct {
	ID    string `gorm:"primaryKey;type:varchar(36)"`
	RunID string `gorm:"type:varchar(36);index;not null"`

	Path     string `gorm:"type:text;not null"`
	Language string `gorm:"type:varchar(50)"`

	Code  string `gorm:"type:varchar(20);index"` // empty when the unit translated
	Error string `gorm:"type:text"`

	// Generated files with their size and written flag
	Outputs datatypes.JSON

	DurationMS int64
}

func (Run) TableName() string        { return "runs" }
func (UnitRecord) TableName() string { return "unit_records" }

// Succeeded reports whether every unit of the run translated.
func (r Run) Succeeded() bool { return r.Failed == 0 }
