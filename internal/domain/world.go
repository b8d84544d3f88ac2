package domain

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/worldorder/worldorder/pkg/sheetimport"
)

//go:generate mockgen -destination mocks/mock_world_repository.go -package mocks github.com/worldorder/worldorder/internal/domain WorldRepository

type WorldStatus string

const (
	WorldStatusNone           WorldStatus = "none"
	WorldStatusVendorMapSetup WorldStatus = "vendorMap_setup"
	WorldStatusNaming         WorldStatus = "world_naming"
	WorldStatusActive         WorldStatus = "active"
	WorldStatusFailed         WorldStatus = "failed"
)

// CanTransitionTo enforces vendorMap_setup -> world_naming -> active, with a failed
// escape from setup that can be retried back into setup.
func (s WorldStatus) CanTransitionTo(next WorldStatus) bool {
	switch s {
	case WorldStatusNone:
		return next == WorldStatusVendorMapSetup
	case WorldStatusVendorMapSetup:
		return next == WorldStatusNaming || next == WorldStatusFailed
	case WorldStatusFailed:
		return next == WorldStatusVendorMapSetup || next == WorldStatusNaming || next == WorldStatusFailed
	case WorldStatusNaming:
		return next == WorldStatusActive
	default:
		return false
	}
}

type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

const worldCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// WorldCodeLength is the size of a share code
const WorldCodeLength = 8

var worldCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// World is a tenant: one owner, any number of employees, and its catalog and formats
type World struct {
	ID                   int64                   `json:"id"`
	Code                 string                  `json:"code"`
	Name                 *string                 `json:"name,omitempty"`
	Status               WorldStatus             `json:"status"`
	OwnerUserID          string                  `json:"owner_user_id"`
	Catalog              *VendorMap              `json:"catalog,omitempty"`
	OrderFormat          *OrderFormat            `json:"order_format,omitempty"`
	DisplayFormat        *DisplayFormat          `json:"display_format,omitempty"`
	MenuImageURL         *string                 `json:"menu_image_url,omitempty"`
	ExcelMapping         *sheetimport.Mapping    `json:"excel_mapping,omitempty"`
	ItemAttributeOptions sheetimport.ItemOptions `json:"item_attribute_options,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// DisplayName is the world name, or its id while unnamed
func (w *World) DisplayName() string {
	if w.Name != nil && *w.Name != "" {
		return *w.Name
	}
	return fmt.Sprintf("#%d", w.ID)
}

func (w *World) IsActive() bool { return w.Status == WorldStatusActive }

// GenerateWorldCode returns a random share code
func GenerateWorldCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(worldCodeAlphabet)))
	for i := 0; i < WorldCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate world code: %w", err)
		}
		b.WriteByte(worldCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// WorldRef identifies a world by id or by share code; exactly one is set
type WorldRef struct {
	ID   int64
	Code string
}

func (r WorldRef) String() string {
	if r.Code != "" {
		return r.Code
	}
	return fmt.Sprintf("#%d", r.ID)
}

// ParseWorldRef reads "#12", "12" or an 8-character share code. Eight alphanumerics are
// always a code, even when they are all digits.
func ParseWorldRef(token string) (WorldRef, bool) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "#") {
		id, err := strconv.ParseInt(token[1:], 10, 64)
		if err != nil || id <= 0 {
			return WorldRef{}, false
		}
		return WorldRef{ID: id}, true
	}
	if worldCodePattern.MatchString(token) {
		return WorldRef{Code: strings.ToUpper(token)}, true
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 || strings.HasPrefix(token, "+") {
		return WorldRef{}, false
	}
	return WorldRef{ID: id}, true
}

// Binding is a user's membership in a world, joined with the world fields the
// conversation needs to compute a stage
type Binding struct {
	UserID      string      `json:"user_id"`
	WorldID     int64       `json:"world_id"`
	Role        Role        `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
	WorldCode   string      `json:"world_code"`
	WorldName   *string     `json:"world_name,omitempty"`
	WorldStatus WorldStatus `json:"world_status"`
}

func (b *Binding) IsOwner() bool { return b.Role == RoleOwner }

// WorldLabel is the world name, or its id while unnamed
func (b *Binding) WorldLabel() string {
	if b.WorldName != nil && *b.WorldName != "" {
		return *b.WorldName
	}
	return fmt.Sprintf("#%d", b.WorldID)
}

// CurrentWorld is the world a user's conversation is focused on
type CurrentWorld struct {
	UserID    string    `json:"user_id"`
	WorldID   int64     `json:"world_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorldRepository persists worlds, bindings and current-world pointers
type WorldRepository interface {
	// Create inserts the world, binds the owner and points the owner at it in one transaction
	Create(ctx context.Context, world *World) error
	GetByID(ctx context.Context, id int64) (*World, error)
	GetByCode(ctx context.Context, code string) (*World, error)
	List(ctx context.Context) ([]*World, error)

	ListBindings(ctx context.Context, userID string) ([]*Binding, error)
	ListMembers(ctx context.Context, worldID int64) ([]*Binding, error)
	AddBinding(ctx context.Context, userID string, worldID int64, role Role) error
	RemoveBinding(ctx context.Context, userID string, worldID int64) error

	// GetCurrentWorld returns nil without error when the user has no pointer
	GetCurrentWorld(ctx context.Context, userID string) (*CurrentWorld, error)
	SetCurrentWorld(ctx context.Context, userID string, worldID int64) error
	ClearCurrentWorld(ctx context.Context, userID string) error

	UpdateStatus(ctx context.Context, worldID int64, status WorldStatus) error
	// SaveCatalogAndAdvance writes the catalog and moves the world to naming in one statement
	SaveCatalogAndAdvance(ctx context.Context, worldID int64, catalog *VendorMap) error
	UpdateCatalog(ctx context.Context, worldID int64, catalog *VendorMap) error
	// Activate names the world and marks it active in one statement
	Activate(ctx context.Context, worldID int64, name string) error
	UpdateOrderFormat(ctx context.Context, worldID int64, format *OrderFormat) error
	UpdateDisplayFormat(ctx context.Context, worldID int64, format *DisplayFormat) error
	UpdateMenuImage(ctx context.Context, worldID int64, url *string) error
	UpdateImport(ctx context.Context, worldID int64, catalog *VendorMap, mapping *sheetimport.Mapping, options sheetimport.ItemOptions) error

	// Delete removes the world with its orders, history, bindings and pointers
	Delete(ctx context.Context, worldID int64) error
	// Discard removes an unfinished world with its bindings and pointers
	Discard(ctx context.Context, worldID int64) error
}

// ScanWorld scans a world row in the column order used by the world repository
func ScanWorld(scanner interface {
	Scan(dest ...interface{}) error
}) (*World, error) {
	var w World
	var name, menuImage sql.NullString
	var catalog, orderFmt, displayFmt, mapping, attributeOptions []byte

	if err := scanner.Scan(
		&w.ID, &w.Code, &name, &w.Status, &w.OwnerUserID,
		&catalog, &orderFmt, &displayFmt, &menuImage,
		&mapping, &attributeOptions,
		&w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if name.Valid {
		w.Name = &name.String
	}
	if menuImage.Valid {
		w.MenuImageURL = &menuImage.String
	}
	if len(catalog) > 0 {
		w.Catalog = &VendorMap{}
		if err := w.Catalog.Scan(catalog); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
	}
	if len(orderFmt) > 0 {
		w.OrderFormat = &OrderFormat{}
		if err := w.OrderFormat.Scan(orderFmt); err != nil {
			return nil, fmt.Errorf("failed to decode order format: %w", err)
		}
	}
	if len(displayFmt) > 0 {
		w.DisplayFormat = &DisplayFormat{}
		if err := w.DisplayFormat.Scan(displayFmt); err != nil {
			return nil, fmt.Errorf("failed to decode display format: %w", err)
		}
	}
	if len(mapping) > 0 {
		w.ExcelMapping = &sheetimport.Mapping{}
		if err := json.Unmarshal(mapping, w.ExcelMapping); err != nil {
			return nil, fmt.Errorf("failed to decode excel mapping: %w", err)
		}
	}
	if len(attributeOptions) > 0 {
		if err := json.Unmarshal(attributeOptions, &w.ItemAttributeOptions); err != nil {
			return nil, fmt.Errorf("failed to decode item attribute options: %w", err)
		}
	}
	return &w, nil
}

// ScanBinding scans user_id, world_id, role, created_at, code, name, status
func ScanBinding(scanner interface {
	Scan(dest ...interface{}) error
}) (*Binding, error) {
	var b Binding
	var name sql.NullString
	if err := scanner.Scan(&b.UserID, &b.WorldID, &b.Role, &b.CreatedAt, &b.WorldCode, &name, &b.WorldStatus); err != nil {
		return nil, err
	}
	if name.Valid {
		b.WorldName = &name.String
	}
	return &b, nil
}
