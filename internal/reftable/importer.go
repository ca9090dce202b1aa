package reftable

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/migration"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ImporterParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

// Importer copies reference sheets into the reference database.
type Importer struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func NewImporter(p ImporterParams) *Importer {
	return &Importer{
		db:    p.DB,
		log:   p.Log.Named("reftable.importer"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Import replaces every sheet read from src. Sheets src cannot provide are
// left untouched.
func (i *Importer) Import(ctx context.Context, src Source) (map[domain.Table]int, error) {
	if err := migration.Run(i.db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("migrate reference tables: %w", err)
	}

	tables, warnings, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		i.log.Warn("reference sheet skipped",
			zap.String("table", string(w.Table)),
			zap.String("reason", w.Reason),
		)
	}

	counts := make(map[domain.Table]int, len(tables))
	for _, t := range tables {
		sheet := &domain.ReferenceSheet{
			ID:         i.genID.Generate(),
			Name:       t.Name,
			Source:     src.Name(),
			Headers:    datatypes.NewJSONSlice(t.Headers),
			ImportedAt: i.clock.Now(),
		}
		rows := make([]domain.ReferenceRow, 0, len(t.Rows))
		for pos, cells := range t.Rows {
			rows = append(rows, domain.ReferenceRow{
				ID:       i.genID.Generate(),
				Position: pos,
				Cells:    datatypes.NewJSONSlice(cells),
			})
		}
		if err := i.repo.ReplaceSheet(ctx, i.db, sheet, rows); err != nil {
			return nil, fmt.Errorf("replace sheet %s: %w", t.Name, err)
		}
		counts[t.Name] = len(rows)
		i.log.Info("reference sheet imported",
			zap.String("table", string(t.Name)),
			zap.Int("rows", len(rows)),
		)
	}
	return counts, nil
}
