package db

import (
	"context"
	"errors"
	"testing"

	"minimarket/config"
	"minimarket/logger"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	conf := config.Configuration{Database: "sqlite3", DbPath: ":memory:", AutoMigrate: true}
	conn, err := Connect(conf, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStoreQueryAndExec(t *testing.T) {
	store := NewStore(openMemory(t), logger.Nop())
	ctx := context.Background()

	n, err := store.Exec(ctx, "INSERT INTO categorias (nombre, activo, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", "Bebidas", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := store.Query(ctx, "SELECT id, nombre, descripcion, activo, created_at FROM categorias")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "Bebidas", rows[0]["nombre"])
	assert.Nil(t, rows[0]["descripcion"])
	assert.Equal(t, true, rows[0]["activo"])
	assert.IsType(t, "", rows[0]["created_at"])

	n, err = store.Exec(ctx, "UPDATE categorias SET nombre = ? WHERE id = ?", "Lácteos", 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestStoreTransactionLastInsertID(t *testing.T) {
	store := NewStore(openMemory(t), logger.Nop())
	ctx := context.Background()

	var id int64
	err := store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Exec(ctx, "INSERT INTO bodegas (nombre, codigo, direccion, es_principal, activa) VALUES (?, ?, ?, ?, ?)",
			"Central", "B01", "Av. Siempre Viva 123", true, true); err != nil {
			return err
		}
		var err error
		id, err = tx.LastInsertID(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestStoreTransactionRollback(t *testing.T) {
	store := NewStore(openMemory(t), logger.Nop())
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Exec(ctx, "INSERT INTO estados (modulo, codigo, nombre, orden, es_activo) VALUES (?, ?, ?, ?, ?)",
			"VENTA", "PEND", "Pendiente", 1, true); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := store.Query(ctx, "SELECT id FROM estados")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreQueryError(t *testing.T) {
	store := NewStore(openMemory(t), logger.Nop())
	_, err := store.Query(context.Background(), "SELECT * FROM nope")
	assert.Error(t, err)
}

func TestStoreCanceledContext(t *testing.T) {
	store := NewStore(openMemory(t), logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlavorOf(t *testing.T) {
	assert.Equal(t, sqlbuilder.PostgreSQL, FlavorOf("postgres"))
	assert.Equal(t, sqlbuilder.MySQL, FlavorOf("mysql"))
	assert.Equal(t, sqlbuilder.SQLite, FlavorOf("sqlite3"))
}

func TestTruthyAndInt64(t *testing.T) {
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(int64(1)))
	assert.True(t, Truthy("t"))
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(int64(0)))
	assert.False(t, Truthy("f"))

	n, ok := Int64("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
	_, ok = Int64("abc")
	assert.False(t, ok)
}

func TestDataSource(t *testing.T) {
	dialect, dsn, err := dataSource(config.Configuration{
		Database: "postgres", DbHost: "h", DbPort: "5432", DbUser: "u", DbName: "n", DbPass: "p", SSLMode: "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialect)
	assert.Equal(t, "host=h port=5432 user=u dbname=n password=p sslmode=disable", dsn)

	dialect, dsn, err = dataSource(config.Configuration{
		Database: "mysql", DbHost: "h", DbPort: "3306", DbUser: "u", DbName: "n", DbPass: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "mysql", dialect)
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=true", dsn)

	_, _, err = dataSource(config.Configuration{Database: "oracle"})
	assert.Error(t, err)
}
