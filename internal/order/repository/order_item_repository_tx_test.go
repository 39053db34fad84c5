package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyDriver answers every query with no rows, enough to exercise
// connection pool usage without MySQL.
type emptyDriver struct{}

func (emptyDriver) Open(string) (driver.Conn, error) { return emptyConn{}, nil }

type emptyConn struct{}

func (emptyConn) Prepare(string) (driver.Stmt, error) { return emptyStmt{}, nil }
func (emptyConn) Close() error                        { return nil }
func (emptyConn) Begin() (driver.Tx, error)           { return emptyTx{}, nil }

type emptyTx struct{}

func (emptyTx) Commit() error   { return nil }
func (emptyTx) Rollback() error { return nil }

type emptyStmt struct{}

func (emptyStmt) Close() error                               { return nil }
func (emptyStmt) NumInput() int                              { return -1 }
func (emptyStmt) Exec([]driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (emptyStmt) Query([]driver.Value) (driver.Rows, error)  { return emptyRows{}, nil }

type emptyRows struct{}

func (emptyRows) Columns() []string {
	return []string{"id", "orderId", "productId", "quantity", "unitPrice", "discount", "total"}
}
func (emptyRows) Close() error              { return nil }
func (emptyRows) Next([]driver.Value) error { return io.EOF }

var registerEmptyDriver sync.Once

func openSingleConnDB(t *testing.T) *sql.DB {
	registerEmptyDriver.Do(func() { sql.Register("vitashop-empty", emptyDriver{}) })

	db, err := sql.Open("vitashop-empty", "")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOrderItemRepository_FindByOrderIDTx_UsesTxConnection(t *testing.T) {
	db := openSingleConnDB(t)
	repo := NewMySQLOrderItemRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	items, err := repo.FindByOrderIDTx(ctx, tx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderItemRepository_FindByOrderID_WaitsForPooledConnection(t *testing.T) {
	db := openSingleConnDB(t)
	repo := NewMySQLOrderItemRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = repo.FindByOrderID(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
