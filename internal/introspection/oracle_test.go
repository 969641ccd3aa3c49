package introspection

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRegistry(t *testing.T) (*Registry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := NewRegistry(map[string]Connection{
		"default": {DB: db, Database: "shop"},
	})
	return registry, mock
}

func TestHasColumn_Exists(t *testing.T) {
	registry, mock := newMockRegistry(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM INFORMATION_SCHEMA\.COLUMNS`).
		WithArgs("shop", "products", "price").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	exists, err := registry.HasColumn(context.Background(), "default", "products", "price")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasColumn_Missing(t *testing.T) {
	registry, mock := newMockRegistry(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM INFORMATION_SCHEMA\.COLUMNS`).
		WithArgs("shop", "products", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	exists, err := registry.HasColumn(context.Background(), "default", "products", "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHasColumn_QueryErrorSurfaces(t *testing.T) {
	registry, mock := newMockRegistry(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM INFORMATION_SCHEMA\.COLUMNS`).
		WithArgs("shop", "products", "price").
		WillReturnError(errors.New("connection reset"))

	_, err := registry.HasColumn(context.Background(), "default", "products", "price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "products.price")
}

func TestHasColumn_UnknownConnection(t *testing.T) {
	registry, _ := newMockRegistry(t)

	_, err := registry.HasColumn(context.Background(), "reporting", "products", "price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reporting")
}

func TestRegister(t *testing.T) {
	registry := NewRegistry(nil)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry.Register("analytics", Connection{DB: db, Database: "metrics"})
	mock.ExpectQuery(`INFORMATION_SCHEMA\.COLUMNS`).
		WithArgs("metrics", "events", "occurred_at").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	exists, err := registry.HasColumn(context.Background(), "analytics", "events", "occurred_at")
	require.NoError(t, err)
	assert.True(t, exists)
}
