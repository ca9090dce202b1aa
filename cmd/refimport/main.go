package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/observability"
	"github.com/ifgsrl/gestionale/internal/reftable"
	"github.com/ifgsrl/gestionale/internal/reftable/repository"
	"github.com/ifgsrl/gestionale/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// refimport copies the reference workbook into the reference database.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Provide(repository.Provide),
		fx.Provide(reftable.NewImporter),
		fx.Invoke(RunImport),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.MachineID)
}

func RunImport(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, importer *reftable.Importer, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				src := reftable.NewWorkbookSource(cfg.Reference.WorkbookPath, reftable.SheetsFrom(cfg.Reference.Sheets))
				counts, err := importer.Import(context.Background(), src)
				if err != nil {
					log.Error("reference import failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				fields := []zap.Field{zap.String("workbook", cfg.Reference.WorkbookPath)}
				for table, n := range counts {
					fields = append(fields, zap.Int(string(table), n))
				}
				log.Info("reference tables imported", fields...)
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
