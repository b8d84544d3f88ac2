package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// Column lists in the order the repositories scan them
var (
	WorldColumns = []string{
		"id", "code", "name", "status", "owner_user_id", "catalog", "order_format", "display_format",
		"menu_image_url", "excel_mapping", "item_attribute_options", "created_at", "updated_at",
	}
	BindingColumns   = []string{"user_id", "world_id", "role", "created_at", "code", "name", "status"}
	OrderItemColumns = []string{"id", "order_id", "branch", "world_id", "item_name", "quantity", "created_at"}
	HistoryColumns   = []string{
		"id", "order_id", "action", "branch", "world_id", "user_id",
		"actor_label", "before_data", "after_data", "created_at",
	}
)

// SetupMockDB returns a sqlmock-backed database; cleanup closes it
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, func() { db.Close() }
}

func WorldRows() *sqlmock.Rows { return sqlmock.NewRows(WorldColumns) }

func BindingRows() *sqlmock.Rows { return sqlmock.NewRows(BindingColumns) }

func OrderItemRows() *sqlmock.Rows { return sqlmock.NewRows(OrderItemColumns) }

func HistoryRows() *sqlmock.Rows { return sqlmock.NewRows(HistoryColumns) }
