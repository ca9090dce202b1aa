package reftable

import (
	"context"
	"fmt"

	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Source reads raw reference sheets. A source that cannot be opened at all
// returns an error; a missing sheet is only a warning.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.RawTable, []domain.Warning, error)
}

// SheetsFrom maps each table to the sheet name configured for it.
func SheetsFrom(cfg config.SheetNames) map[domain.Table]string {
	return map[domain.Table]string{
		domain.TableElements:      cfg.Elements,
		domain.TablePriceList:     cfg.PriceList,
		domain.TableGridModels:    cfg.GridModels,
		domain.TableCounterFrames: cfg.CounterFrames,
		domain.TableFrameTypes:    cfg.FrameTypes,
	}
}

// WorkbookSource reads one sheet per table from an xlsx workbook. The
// first row of each sheet is the header.
type WorkbookSource struct {
	path   string
	sheets map[domain.Table]string
}

func NewWorkbookSource(path string, sheets map[domain.Table]string) *WorkbookSource {
	return &WorkbookSource{path: path, sheets: sheets}
}

func (s *WorkbookSource) Name() string { return "workbook:" + s.path }

func (s *WorkbookSource) Path() string { return s.path }

func (s *WorkbookSource) Load(ctx context.Context) ([]domain.RawTable, []domain.Warning, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	var (
		tables   []domain.RawTable
		warnings []domain.Warning
	)
	for _, name := range domain.Tables {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		sheet := s.sheets[name]
		if sheet == "" {
			continue
		}
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			warnings = append(warnings, domain.Warning{Table: name, Reason: fmt.Sprintf("sheet %q not found", sheet)})
			continue
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			warnings = append(warnings, domain.Warning{Table: name, Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)})
			continue
		}
		raw := domain.RawTable{Name: name}
		if len(rows) > 0 {
			raw.Headers = rows[0]
			raw.Rows = rows[1:]
		}
		tables = append(tables, raw)
	}
	return tables, warnings, nil
}

// DatabaseSource reads sheets previously imported into the reference
// database.
type DatabaseSource struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewDatabaseSource(db *gorm.DB, repo domain.Repository) *DatabaseSource {
	return &DatabaseSource{db: db, repo: repo}
}

func (s *DatabaseSource) Name() string { return "database" }

func (s *DatabaseSource) Load(ctx context.Context) ([]domain.RawTable, []domain.Warning, error) {
	var (
		tables   []domain.RawTable
		warnings []domain.Warning
	)
	for _, name := range domain.Tables {
		sheet, rows, err := s.repo.LoadSheet(ctx, s.db, name)
		if err != nil {
			return nil, nil, fmt.Errorf("load sheet %s: %w", name, err)
		}
		if sheet == nil {
			warnings = append(warnings, domain.Warning{Table: name, Reason: domain.ErrSheetNotLoaded.Error()})
			continue
		}
		raw := domain.RawTable{
			Name:    name,
			Headers: append([]string(nil), sheet.Headers...),
			Rows:    make([][]string, 0, len(rows)),
		}
		for _, row := range rows {
			raw.Rows = append(raw.Rows, append([]string(nil), row.Cells...))
		}
		tables = append(tables, raw)
	}
	return tables, warnings, nil
}
