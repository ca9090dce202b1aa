package reftable

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/ifgsrl/gestionale/internal/clock"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/ifgsrl/gestionale/internal/reftable/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestImporter_WorkbookToDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "database_gestionale.xlsx")
	writeWorkbook(t, path, map[string][][]string{
		"listino": {
			{"MODELLO", "Minimi", "STANDARD RAL"},
			{"M1", "1", "100"},
			{"M2", "", "150"},
		},
		"elementi": {
			{"TIPOLOGIA COMPLETA DI APERTURA", "NUMERO ANTE", "MINIMI 1 (protezione singola)"},
			{"1 ANTA DX", "1", "1,5"},
		},
	})

	repo := repository.Provide()
	imp := NewImporter(ImporterParams{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repo,
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
	})

	counts, err := imp.Import(context.Background(), NewWorkbookSource(path, defaultSheets()))
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.TablePriceList])
	assert.Equal(t, 1, counts[domain.TableElements])

	h := NewHolder(NewDatabaseSource(db, repo), DefaultSchema(), nil, zap.NewNop())
	require.NoError(t, h.Reload(context.Background()))

	p, ok := h.Store().Price("M2")
	require.True(t, ok)
	assert.True(t, p.Price(domain.ColorStandardRAL).Decimal.Equal(mustDec("150")))

	e, ok := h.Store().Element("1 ANTA DX")
	require.True(t, ok)
	assert.Equal(t, "1,5", e.Minimums[0])

	sheets, err := repo.ListSheets(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.True(t, sheets[0].ImportedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
