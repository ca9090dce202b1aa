package reftable

import (
	"context"
	"errors"

	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/quotemetrics"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/ifgsrl/gestionale/internal/reftable/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("reftable.service",
	fx.Provide(repository.Provide),
	fx.Provide(DefaultSchema),
	fx.Provide(provideSource),
	fx.Provide(provideHolder),
	fx.Invoke(registerLoad),
)

type sourceParams struct {
	fx.In

	Config config.Config
	DB     *gorm.DB `optional:"true"`
	Repo   domain.Repository
}

func provideSource(p sourceParams) (Source, error) {
	if p.Config.Reference.Source == config.ReferenceSourceDatabase {
		if p.DB == nil {
			return nil, errors.New("reference source database requires a database connection")
		}
		return NewDatabaseSource(p.DB, p.Repo), nil
	}
	return NewWorkbookSource(p.Config.Reference.WorkbookPath, SheetsFrom(p.Config.Reference.Sheets)), nil
}

type holderParams struct {
	fx.In

	Source   Source
	Schema   Schema
	Recorder quotemetrics.Recorder `optional:"true"`
	Log      *zap.Logger
}

func provideHolder(p holderParams) *Holder {
	return NewHolder(p.Source, p.Schema, p.Recorder, p.Log)
}

// registerLoad loads the tables on start. A failed first load leaves the
// empty snapshot in place.
func registerLoad(lc fx.Lifecycle, cfg config.Config, h *Holder, src Source) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			_ = h.Reload(startCtx)
			if wb, ok := src.(*WorkbookSource); ok && cfg.Reference.Watch {
				if err := h.Watch(ctx, wb.Path()); err != nil {
					h.log.Warn("reference watch disabled", zap.Error(err))
				}
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
