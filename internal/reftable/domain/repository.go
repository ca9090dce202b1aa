package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReferenceSheet is an imported reference sheet.
type ReferenceSheet struct {
	ID         snowflake.ID                `json:"id" gorm:"primaryKey"`
	Name       Table                       `json:"name" gorm:"type:varchar(64);not null;uniqueIndex"`
	Source     string                      `json:"source" gorm:"type:text"`
	Headers    datatypes.JSONSlice[string] `json:"headers" gorm:"type:json"`
	RowCount   int                         `json:"row_count" gorm:"not null;default:0"`
	ImportedAt time.Time                   `json:"imported_at" gorm:"not null"`
}

func (ReferenceSheet) TableName() string { return "reference_sheets" }

// ReferenceRow is one data row of a sheet, cells in header order.
type ReferenceRow struct {
	ID       snowflake.ID                `json:"id" gorm:"primaryKey"`
	SheetID  snowflake.ID                `json:"sheet_id" gorm:"not null;index"`
	Position int                         `json:"position" gorm:"not null"`
	Cells    datatypes.JSONSlice[string] `json:"cells" gorm:"type:json"`
}

func (ReferenceRow) TableName() string { return "reference_rows" }

type Repository interface {
	ReplaceSheet(ctx context.Context, db *gorm.DB, sheet *ReferenceSheet, rows []ReferenceRow) error
	LoadSheet(ctx context.Context, db *gorm.DB, name Table) (*ReferenceSheet, []ReferenceRow, error)
	ListSheets(ctx context.Context, db *gorm.DB) ([]ReferenceSheet, error)
}
