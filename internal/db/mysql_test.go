package db

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("reader:secret@tcp(db.internal:3306)/billing")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "UTC", cfg.Loc.String())
	assert.Equal(t, "billing", cfg.DBName)
	assert.Equal(t, "db.internal:3306", cfg.Addr)

	_, err = mysqlDSN("")
	assert.Error(t, err)
}
