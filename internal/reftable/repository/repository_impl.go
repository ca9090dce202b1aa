package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() refdomain.Repository {
	return &repo{}
}

// ReplaceSheet swaps the stored content of a sheet in one transaction.
func (r *repo) ReplaceSheet(ctx context.Context, db *gorm.DB, sheet *refdomain.ReferenceSheet, rows []refdomain.ReferenceRow) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []snowflake.ID
		if err := tx.Model(&refdomain.ReferenceSheet{}).
			Where("name = ?", sheet.Name).
			Pluck("id", &existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := tx.Where("sheet_id IN ?", existing).Delete(&refdomain.ReferenceRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", existing).Delete(&refdomain.ReferenceSheet{}).Error; err != nil {
				return err
			}
		}

		sheet.RowCount = len(rows)
		if err := tx.Create(sheet).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].SheetID = sheet.ID
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// LoadSheet returns the sheet and its rows in position order. A sheet that
// was never imported yields nil, nil, nil.
func (r *repo) LoadSheet(ctx context.Context, db *gorm.DB, name refdomain.Table) (*refdomain.ReferenceSheet, []refdomain.ReferenceRow, error) {
	var sheet refdomain.ReferenceSheet
	err := db.WithContext(ctx).Where("name = ?", name).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var rows []refdomain.ReferenceRow
	if err := db.WithContext(ctx).
		Where("sheet_id = ?", sheet.ID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return &sheet, rows, nil
}

func (r *repo) ListSheets(ctx context.Context, db *gorm.DB) ([]refdomain.ReferenceSheet, error) {
	var items []refdomain.ReferenceSheet
	err := db.WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
