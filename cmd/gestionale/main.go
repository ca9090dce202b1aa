package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/ifgsrl/gestionale/internal/migration"
	"github.com/ifgsrl/gestionale/internal/observability"
	"github.com/ifgsrl/gestionale/internal/quote"
	quotedomain "github.com/ifgsrl/gestionale/internal/quote/domain"
	"github.com/ifgsrl/gestionale/internal/quote/render"
	"github.com/ifgsrl/gestionale/internal/quotemetrics"
	"github.com/ifgsrl/gestionale/internal/reftable"
	"github.com/ifgsrl/gestionale/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		quotemetrics.Module,
		databaseModule(cfg),

		reftable.Module,
		quote.Module,

		fx.Invoke(RunQuote),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.MachineID)
}

// databaseModule only opens a connection, and creates the reference
// tables, when they live in the database.
func databaseModule(cfg config.Config) fx.Option {
	if cfg.Reference.Source != config.ReferenceSourceDatabase {
		return fx.Options()
	}
	return fx.Options(db.Module, migration.Module)
}

type runParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     config.Config
	Log        *zap.Logger
	Service    quotedomain.Service
	Renderer   render.Provider
}

// RunQuote reprices QUOTE_FILE against the current reference tables, saves
// it back and writes the configured exports, then stops the app.
func RunQuote(p runParams) {
	log := p.Log.Named("gestionale")
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx := context.Background()
				code := 0
				if err := runQuote(ctx, p); err != nil {
					log.Error("quote run failed", zap.Error(err))
					code = 1
				}
				_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func runQuote(ctx context.Context, p runParams) error {
	if p.Config.Quote.File == "" {
		p.Log.Info("no quote file configured, nothing to do")
		return nil
	}

	doc, err := p.Service.Open(ctx, p.Config.Quote.File)
	if err != nil {
		return err
	}
	path, err := p.Service.Save(ctx, doc)
	if err != nil {
		return err
	}

	if out := p.Config.Quote.PDFPath; out != "" {
		r, err := p.Renderer.PDF(ctx, doc)
		if err != nil {
			return err
		}
		if err := writeFile(out, r); err != nil {
			return err
		}
	}
	if out := p.Config.Quote.XLSXPath; out != "" {
		r, err := p.Renderer.Workbook(ctx, doc)
		if err != nil {
			return err
		}
		if err := writeFile(out, r); err != nil {
			return err
		}
	}

	totals := doc.Totals()
	p.Log.Info("quote recalculated",
		zap.String("path", path),
		zap.Int("positions", len(doc.Lines)),
		zap.Int("pieces", totals.Pieces),
		zap.String("list_total", totals.ListTotal.StringFixed(2)),
		zap.String("discounted_total", totals.DiscountedTotal.StringFixed(2)),
	)
	return nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}
