package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/sheetimport"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	worldCodeConstraint = "worlds_code_key"
	oneOwnerConstraint  = "idx_world_bindings_one_owner"
)

const worldColumns = `id, code, name, status, owner_user_id, catalog, order_format, display_format,
	menu_image_url, excel_mapping, item_attribute_options, created_at, updated_at`

const bindingSelect = `SELECT b.user_id, b.world_id, b.role, b.created_at, w.code, w.name, w.status
	FROM world_bindings b JOIN worlds w ON w.id = b.world_id`

// WorldRepository implements the domain.WorldRepository interface using PostgreSQL
type WorldRepository struct {
	systemDB *sql.DB
	psql     sq.StatementBuilderType
}

// NewWorldRepository creates a new PostgreSQL world repository
func NewWorldRepository(db *sql.DB) domain.WorldRepository {
	return &WorldRepository{
		systemDB: db,
		psql:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// WithTransaction executes fn inside a transaction that is rolled back on error
func (r *WorldRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return withTransaction(ctx, r.systemDB, fn)
}

func withTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// pqConstraintError returns the violated constraint when err is a postgres error with the given code
func pqConstraintError(err error, code string) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr.Constraint, true
	}
	return "", false
}

// jsonColumn encodes v for a JSONB column; nil pointers become NULL
func jsonColumn(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case *domain.VendorMap:
		if t == nil {
			return nil, nil
		}
		return t.Value()
	case *domain.OrderFormat:
		if t == nil {
			return nil, nil
		}
		return t.Value()
	case *domain.DisplayFormat:
		if t == nil {
			return nil, nil
		}
		return t.Value()
	case *sheetimport.Mapping:
		if t == nil {
			return nil, nil
		}
	case sheetimport.ItemOptions:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

// Create inserts the world, its owner binding and the owner's current-world pointer
func (r *WorldRepository) Create(ctx context.Context, world *domain.World) error {
	now := time.Now().UTC()
	world.CreatedAt = now
	world.UpdatedAt = now
	if world.Status == "" {
		world.Status = domain.WorldStatusVendorMapSetup
	}

	catalog, err := jsonColumn(world.Catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO worlds (code, name, status, owner_user_id, catalog, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			world.Code, world.Name, world.Status, world.OwnerUserID, catalog, now, now,
		).Scan(&world.ID)
		if err != nil {
			if constraint, ok := pqConstraintError(err, uniqueViolation); ok && constraint == worldCodeConstraint {
				return domain.ErrCodeTaken
			}
			return fmt.Errorf("failed to create world: %w", err)
		}

		if err := insertBinding(ctx, tx, world.OwnerUserID, world.ID, domain.RoleOwner, now); err != nil {
			return err
		}
		return upsertCurrentWorld(ctx, tx, world.OwnerUserID, world.ID, now)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertBinding(ctx context.Context, db execer, userID string, worldID int64, role domain.Role, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO world_bindings (user_id, world_id, role, created_at) VALUES ($1, $2, $3, $4)`,
		userID, worldID, role, now,
	)
	if err == nil {
		return nil
	}
	if constraint, ok := pqConstraintError(err, uniqueViolation); ok {
		if constraint == oneOwnerConstraint {
			return domain.ErrAlreadyOwner
		}
		return domain.ErrAlreadyBound
	}
	if _, ok := pqConstraintError(err, foreignKeyViolation); ok {
		return &domain.ErrWorldNotFound{Ref: "#" + strconv.FormatInt(worldID, 10)}
	}
	return fmt.Errorf("failed to create binding: %w", err)
}

func upsertCurrentWorld(ctx context.Context, db execer, userID string, worldID int64, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO current_worlds (user_id, world_id, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET world_id = EXCLUDED.world_id, updated_at = EXCLUDED.updated_at`,
		userID, worldID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to set current world: %w", err)
	}
	return nil
}

// GetByID retrieves a world by its numeric id
func (r *WorldRepository) GetByID(ctx context.Context, id int64) (*domain.World, error) {
	row := r.systemDB.QueryRowContext(ctx, `SELECT `+worldColumns+` FROM worlds WHERE id = $1`, id)
	world, err := domain.ScanWorld(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrWorldNotFound{Ref: "#" + strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get world: %w", err)
	}
	return world, nil
}

// GetByCode retrieves a world by its share code
func (r *WorldRepository) GetByCode(ctx context.Context, code string) (*domain.World, error) {
	row := r.systemDB.QueryRowContext(ctx, `SELECT `+worldColumns+` FROM worlds WHERE code = $1`, code)
	world, err := domain.ScanWorld(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrWorldNotFound{Ref: code}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get world: %w", err)
	}
	return world, nil
}

// List returns every world ordered by id
func (r *WorldRepository) List(ctx context.Context) ([]*domain.World, error) {
	rows, err := r.systemDB.QueryContext(ctx, `SELECT `+worldColumns+` FROM worlds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	defer rows.Close()

	var worlds []*domain.World
	for rows.Next() {
		world, err := domain.ScanWorld(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan world: %w", err)
		}
		worlds = append(worlds, world)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating world rows: %w", err)
	}
	return worlds, nil
}

func (r *WorldRepository) queryBindings(ctx context.Context, query string, arg interface{}) ([]*domain.Binding, error) {
	rows, err := r.systemDB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*domain.Binding
	for rows.Next() {
		b, err := domain.ScanBinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating binding rows: %w", err)
	}
	return bindings, nil
}

// ListBindings returns a user's bindings in the order they were made
func (r *WorldRepository) ListBindings(ctx context.Context, userID string) ([]*domain.Binding, error) {
	return r.queryBindings(ctx, bindingSelect+` WHERE b.user_id = $1 ORDER BY b.created_at, b.world_id`, userID)
}

// ListMembers returns a world's bindings, owner first
func (r *WorldRepository) ListMembers(ctx context.Context, worldID int64) ([]*domain.Binding, error) {
	return r.queryBindings(ctx, bindingSelect+` WHERE b.world_id = $1 ORDER BY (b.role = 'owner') DESC, b.created_at`, worldID)
}

// AddBinding binds a user to a world with the given role
func (r *WorldRepository) AddBinding(ctx context.Context, userID string, worldID int64, role domain.Role) error {
	return insertBinding(ctx, r.systemDB, userID, worldID, role, time.Now().UTC())
}

// RemoveBinding unbinds a user and drops their pointer if it targets the world
func (r *WorldRepository) RemoveBinding(ctx context.Context, userID string, worldID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM world_bindings WHERE user_id = $1 AND world_id = $2`, userID, worldID)
		if err != nil {
			return fmt.Errorf("failed to remove binding: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return domain.ErrNotBound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM current_worlds WHERE user_id = $1 AND world_id = $2`, userID, worldID); err != nil {
			return fmt.Errorf("failed to clear current world: %w", err)
		}
		return nil
	})
}

// GetCurrentWorld returns the user's pointer, or nil when there is none
func (r *WorldRepository) GetCurrentWorld(ctx context.Context, userID string) (*domain.CurrentWorld, error) {
	var cw domain.CurrentWorld
	err := r.systemDB.QueryRowContext(ctx,
		`SELECT user_id, world_id, updated_at FROM current_worlds WHERE user_id = $1`, userID,
	).Scan(&cw.UserID, &cw.WorldID, &cw.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current world: %w", err)
	}
	return &cw, nil
}

// SetCurrentWorld upserts the user's pointer
func (r *WorldRepository) SetCurrentWorld(ctx context.Context, userID string, worldID int64) error {
	return upsertCurrentWorld(ctx, r.systemDB, userID, worldID, time.Now().UTC())
}

// ClearCurrentWorld removes the user's pointer
func (r *WorldRepository) ClearCurrentWorld(ctx context.Context, userID string) error {
	if _, err := r.systemDB.ExecContext(ctx, `DELETE FROM current_worlds WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear current world: %w", err)
	}
	return nil
}

// updateWorld applies a column set to one world and bumps updated_at
func (r *WorldRepository) updateWorld(ctx context.Context, worldID int64, set map[string]interface{}) error {
	set["updated_at"] = time.Now().UTC()
	query, args, err := r.psql.Update("worlds").SetMap(set).Where(sq.Eq{"id": worldID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.systemDB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update world: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return &domain.ErrWorldNotFound{Ref: "#" + strconv.FormatInt(worldID, 10)}
	}
	return nil
}

func (r *WorldRepository) UpdateStatus(ctx context.Context, worldID int64, status domain.WorldStatus) error {
	return r.updateWorld(ctx, worldID, map[string]interface{}{"status": status})
}

// SaveCatalogAndAdvance stores the first catalog and moves the world to naming
func (r *WorldRepository) SaveCatalogAndAdvance(ctx context.Context, worldID int64, catalog *domain.VendorMap) error {
	value, err := jsonColumn(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return r.updateWorld(ctx, worldID, map[string]interface{}{
		"catalog": value,
		"status":  domain.WorldStatusNaming,
	})
}

func (r *WorldRepository) UpdateCatalog(ctx context.Context, worldID int64, catalog *domain.VendorMap) error {
	value, err := jsonColumn(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return r.updateWorld(ctx, worldID, map[string]interface{}{"catalog": value})
}

// Activate names the world and marks it active
func (r *WorldRepository) Activate(ctx context.Context, worldID int64, name string) error {
	return r.updateWorld(ctx, worldID, map[string]interface{}{
		"name":   name,
		"status": domain.WorldStatusActive,
	})
}

func (r *WorldRepository) UpdateOrderFormat(ctx context.Context, worldID int64, format *domain.OrderFormat) error {
	value, err := jsonColumn(format)
	if err != nil {
		return fmt.Errorf("failed to encode order format: %w", err)
	}
	return r.updateWorld(ctx, worldID, map[string]interface{}{"order_format": value})
}

func (r *WorldRepository) UpdateDisplayFormat(ctx context.Context, worldID int64, format *domain.DisplayFormat) error {
	value, err := jsonColumn(format)
	if err != nil {
		return fmt.Errorf("failed to encode display format: %w", err)
	}
	return r.updateWorld(ctx, worldID, map[string]interface{}{"display_format": value})
}

func (r *WorldRepository) UpdateMenuImage(ctx context.Context, worldID int64, url *string) error {
	return r.updateWorld(ctx, worldID, map[string]interface{}{"menu_image_url": url})
}

// UpdateImport replaces the catalog with a spreadsheet import and remembers how it was read
func (r *WorldRepository) UpdateImport(ctx context.Context, worldID int64, catalog *domain.VendorMap, mapping *sheetimport.Mapping, options sheetimport.ItemOptions) error {
	set := map[string]interface{}{}
	for column, v := range map[string]interface{}{
		"catalog":                catalog,
		"excel_mapping":          mapping,
		"item_attribute_options": options,
	} {
		value, err := jsonColumn(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", column, err)
		}
		set[column] = value
	}
	return r.updateWorld(ctx, worldID, set)
}

// Delete removes a world with its orders, history, bindings and pointers
func (r *WorldRepository) Delete(ctx context.Context, worldID int64) error {
	return r.deleteWorld(ctx, worldID,
		`DELETE FROM order_items WHERE world_id = $1`,
		`DELETE FROM order_history WHERE world_id = $1`,
	)
}

// Discard removes an unfinished world; it has no orders to clean up
func (r *WorldRepository) Discard(ctx context.Context, worldID int64) error {
	return r.deleteWorld(ctx, worldID)
}

func (r *WorldRepository) deleteWorld(ctx context.Context, worldID int64, extra ...string) error {
	statements := append(extra,
		`DELETE FROM current_worlds WHERE world_id = $1`,
		`DELETE FROM world_bindings WHERE world_id = $1`,
	)

	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, worldID); err != nil {
				return fmt.Errorf("failed to delete world data: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM worlds WHERE id = $1`, worldID)
		if err != nil {
			return fmt.Errorf("failed to delete world: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return &domain.ErrWorldNotFound{Ref: "#" + strconv.FormatInt(worldID, 10)}
		}
		return nil
	})
}
