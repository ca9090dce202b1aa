package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialect(t *testing.T) {
	for _, typ := range []string{"sqlite", "postgres", "mysql", ""} {
		d, err := Dialect(Config{Type: typ, Host: "localhost", Port: "5432", Name: "gestionale"})
		require.NoError(t, err, typ)
		assert.NotNil(t, d, typ)
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	conn, err := Open(nil, Config{Type: "sqlite", Path: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
