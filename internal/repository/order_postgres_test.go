package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/internal/repository/testutil"
)

func int64Ptr(v int64) *int64 { return &v }

func sampleOrder() (*domain.Order, *domain.HistoryEntry) {
	order := &domain.Order{
		ID:      "ORD-1700000000000-ab12cd34",
		Branch:  "台北店",
		WorldID: int64Ptr(3),
		UserID:  "U1",
		Items: []domain.OrderLine{
			{ItemName: "雞蛋", Quantity: 10},
			{ItemName: "牛奶", Quantity: 2},
		},
	}
	entry := &domain.HistoryEntry{
		ID:      "h-1",
		OrderID: order.ID,
		Action:  domain.HistoryActionCreateOrder,
		Branch:  order.Branch,
		WorldID: order.WorldID,
		UserID:  "U1",
		After:   &domain.HistorySnapshot{Items: order.Items},
	}
	return order, entry
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts items then history", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)
		order, entry := sampleOrder()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(order.ID, "台北店", int64(3), "雞蛋", 10, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(order.ID, "台北店", int64(3), "牛奶", 2, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec("INSERT INTO order_history").
			WithArgs("h-1", order.ID, "create_order", "台北店", int64(3), "U1", "",
				nil, []byte(`{"items":[{"item":"雞蛋","qty":10},{"item":"牛奶","qty":2}]}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrder(ctx, order, entry))
		assert.False(t, order.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("item failure skips history", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)
		order, entry := sampleOrder()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.CreateOrder(ctx, order, entry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "牛奶")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_FindLiveItems(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM order_items WHERE item_name = $1 AND (world_id IS NULL OR world_id = ANY($2)) ORDER BY id")).
		WithArgs("雞蛋", sqlmock.AnyArg()).
		WillReturnRows(testutil.OrderItemRows().
			AddRow(int64(1), "ORD-1", "台北店", int64(3), "雞蛋", 10, now).
			AddRow(int64(2), "ORD-0", "", nil, "雞蛋", 4, now))

	items, err := repo.FindLiveItems(context.Background(), "雞蛋", []int64{3, 4})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].WorldID)
	assert.Equal(t, int64(3), *items[0].WorldID)
	assert.Nil(t, items[1].WorldID)
	assert.Equal(t, 4, items[1].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindLiveItems_NoWorlds(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE item_name = $1 AND (world_id IS NULL) ORDER BY id")).
		WithArgs("雞蛋").
		WillReturnRows(testutil.OrderItemRows())

	items, err := repo.FindLiveItems(context.Background(), "雞蛋", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepository_ApplyModifications(t *testing.T) {
	ctx := context.Background()
	eggs := &domain.OrderItem{ID: 5, OrderID: "ORD-1", ItemName: "雞蛋", Quantity: 10}
	milk := &domain.OrderItem{ID: 6, OrderID: "ORD-2", ItemName: "雞蛋", Quantity: 1}

	t.Run("update", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET quantity = $1 WHERE id = $2")).
			WithArgs(15, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_history").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entry := &domain.HistoryEntry{ID: "h-2", OrderID: "ORD-1", Action: domain.HistoryActionModifyQuantity}
		require.NoError(t, repo.ApplyModifications(ctx, []domain.ItemModification{
			{Item: eggs, NewQuantity: 15, Entry: entry},
		}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero deletes but still logs", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_items WHERE id = $1")).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_history").
			WithArgs("h-3", "ORD-1", "delete_item", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entry := &domain.HistoryEntry{ID: "h-3", OrderID: "ORD-1", Action: domain.HistoryActionDeleteItem}
		require.NoError(t, repo.ApplyModifications(ctx, []domain.ItemModification{
			{Item: eggs, NewQuantity: 0, Entry: entry},
		}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failed row rolls back the rows before it", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET quantity = $1 WHERE id = $2")).
			WithArgs(11, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_history").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET quantity = $1 WHERE id = $2")).
			WithArgs(2, int64(6)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.ApplyModifications(ctx, []domain.ItemModification{
			{Item: eggs, NewQuantity: 11, Entry: &domain.HistoryEntry{ID: "h-4", OrderID: "ORD-1"}},
			{Item: milk, NewQuantity: 2, Entry: &domain.HistoryEntry{ID: "h-5", OrderID: "ORD-2"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ORD-2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to apply", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		require.NoError(t, repo.ApplyModifications(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_ListCreateHistory(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)
	now := time.Now().UTC()
	branch := "台北店"

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM order_history WHERE action = $1 AND world_id = $2 AND branch = $3 ORDER BY created_at, id")).
		WithArgs("create_order", int64(3), "台北店").
		WillReturnRows(testutil.HistoryRows().
			AddRow("h-1", "ORD-1", "create_order", "台北店", int64(3), "U1", "小明",
				nil, []byte(`{"items":[{"item":"雞蛋","qty":10}]}`), now))

	entries, err := repo.ListCreateHistory(context.Background(), domain.HistoryFilter{WorldID: int64Ptr(3), Branch: &branch})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Before)

	order := entries[0].ToOrder()
	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, "小明", order.ActorLabel)
	assert.Equal(t, []domain.OrderLine{{ItemName: "雞蛋", Quantity: 10}}, order.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ClearLive(t *testing.T) {
	ctx := context.Background()

	t.Run("one world", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_items WHERE world_id = $1")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 4))

		n, err := repo.ClearLive(ctx, int64Ptr(3))
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("everything", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectExec("^DELETE FROM order_items$").
			WillReturnResult(sqlmock.NewResult(0, 9))

		n, err := repo.ClearLive(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(9), n)
	})
}
