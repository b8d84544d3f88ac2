package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/worldorder/worldorder/internal/domain"
)

const historyColumns = "id, order_id, action, branch, world_id, user_id, actor_label, before_data, after_data, created_at"

// OrderRepository implements the domain.OrderRepository interface using PostgreSQL
type OrderRepository struct {
	systemDB *sql.DB
	psql     sq.StatementBuilderType
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &OrderRepository{
		systemDB: db,
		psql:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateOrder writes every line, then the history entry, in one transaction.
// The first failing insert aborts the order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, entry *domain.HistoryEntry) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	return withTransaction(ctx, r.systemDB, func(tx *sql.Tx) error {
		for _, line := range order.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, branch, world_id, item_name, quantity, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				order.ID, order.Branch, order.WorldID, line.ItemName, line.Quantity, order.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert order item %s: %w", line.ItemName, err)
			}
		}
		return insertHistory(ctx, tx, entry)
	})
}

func insertHistory(ctx context.Context, tx *sql.Tx, entry *domain.HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var before, after interface{}
	if entry.Before != nil {
		before = *entry.Before
	}
	if entry.After != nil {
		after = *entry.After
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.OrderID, entry.Action, entry.Branch, entry.WorldID,
		entry.UserID, entry.ActorLabel, before, after, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order history: %w", err)
	}
	return nil
}

// FindLiveItems returns live rows named itemName that belong to one of worldIDs or to no world
func (r *OrderRepository) FindLiveItems(ctx context.Context, itemName string, worldIDs []int64) ([]*domain.OrderItem, error) {
	scope := sq.Or{sq.Eq{"world_id": nil}}
	if len(worldIDs) > 0 {
		scope = append(scope, sq.Expr("world_id = ANY(?)", pq.Array(worldIDs)))
	}

	query, args, err := r.psql.
		Select("id", "order_id", "branch", "world_id", "item_name", "quantity", "created_at").
		From("order_items").
		Where(sq.Eq{"item_name": itemName}).
		Where(scope).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.systemDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		var worldID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Branch, &worldID, &it.ItemName, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if worldID.Valid {
			it.WorldID = &worldID.Int64
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}
	return items, nil
}

// ApplyModifications sets each live row's quantity, deleting it at zero, and logs its
// entry. Either every row changes or none does. Concurrent writers on the same row
// resolve last-write-wins.
func (r *OrderRepository) ApplyModifications(ctx context.Context, mods []domain.ItemModification) error {
	if len(mods) == 0 {
		return nil
	}
	return withTransaction(ctx, r.systemDB, func(tx *sql.Tx) error {
		for _, m := range mods {
			var err error
			if m.NewQuantity == 0 {
				_, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, m.Item.ID)
			} else {
				_, err = tx.ExecContext(ctx, `UPDATE order_items SET quantity = $1 WHERE id = $2`, m.NewQuantity, m.Item.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to modify order item %s of %s: %w", m.Item.ItemName, m.Item.OrderID, err)
			}
			if err := insertHistory(ctx, tx, m.Entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCreateHistory returns create_order entries oldest first
func (r *OrderRepository) ListCreateHistory(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error) {
	builder := r.psql.
		Select(historyColumns).
		From("order_history").
		Where(sq.Eq{"action": domain.HistoryActionCreateOrder})
	if filter.WorldID != nil {
		builder = builder.Where(sq.Eq{"world_id": *filter.WorldID})
	}
	if filter.Branch != nil {
		builder = builder.Where(sq.Eq{"branch": *filter.Branch})
	}

	query, args, err := builder.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.systemDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list order history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order history rows: %w", err)
	}
	return entries, nil
}

func scanHistoryEntry(rows *sql.Rows) (*domain.HistoryEntry, error) {
	var e domain.HistoryEntry
	var worldID sql.NullInt64
	var before, after []byte
	if err := rows.Scan(&e.ID, &e.OrderID, &e.Action, &e.Branch, &worldID,
		&e.UserID, &e.ActorLabel, &before, &after, &e.CreatedAt); err != nil {
		return nil, err
	}
	if worldID.Valid {
		e.WorldID = &worldID.Int64
	}
	if len(before) > 0 {
		e.Before = &domain.HistorySnapshot{}
		if err := e.Before.Scan(before); err != nil {
			return nil, err
		}
	}
	if len(after) > 0 {
		e.After = &domain.HistorySnapshot{}
		if err := e.After.Scan(after); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// ClearLive deletes live rows of one world, or all of them when worldID is nil
func (r *OrderRepository) ClearLive(ctx context.Context, worldID *int64) (int64, error) {
	builder := r.psql.Delete("order_items")
	if worldID != nil {
		builder = builder.Where(sq.Eq{"world_id": *worldID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.systemDB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear order items: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}
