package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	refdomain "github.com/ifgsrl/gestionale/internal/reftable/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRun_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Run(db))
	assert.True(t, db.Migrator().HasTable(&refdomain.ReferenceSheet{}))
	assert.True(t, db.Migrator().HasTable(&refdomain.ReferenceRow{}))

	require.NoError(t, Run(db))
}

func TestRun_Nil(t *testing.T) {
	assert.Error(t, Run(nil))
	assert.Error(t, RunMigrations(nil))
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sql/000001_reference_tables.down.sql",
		"sql/000001_reference_tables.up.sql",
	}, names)
}
