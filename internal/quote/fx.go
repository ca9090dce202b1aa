package quote

import (
	"github.com/ifgsrl/gestionale/internal/quote/render"
	"github.com/ifgsrl/gestionale/internal/quote/repository"
	"github.com/ifgsrl/gestionale/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(repository.Provide),
	fx.Provide(render.New),
	fx.Provide(service.NewService),
)
