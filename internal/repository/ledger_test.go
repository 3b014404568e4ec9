package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestLedger(t *testing.T) *LedgerStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store, err := NewLedgerStore(db, "delivery_records")
	require.NoError(t, err)
	return store
}

func TestLedgerInsertAndExists(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	seen, err := store.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Insert(ctx, "msg-1"))

	seen, err = store.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestLedgerDuplicateInsert(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "msg-1"))
	err := store.Insert(ctx, "msg-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestLedgerIDsAreIndependent(t *testing.T) {
	store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "msg-1"))
	require.NoError(t, store.Insert(ctx, "msg-2"))

	seen, err := store.Exists(ctx, "msg-2")
	require.NoError(t, err)
	assert.True(t, seen)
}
