package domain

import (
	"context"

	"github.com/worldorder/worldorder/pkg/messaging"
	"github.com/worldorder/worldorder/pkg/sheetimport"
)

//go:generate mockgen -destination mocks/mock_messenger.go -package mocks github.com/worldorder/worldorder/internal/domain Messenger
//go:generate mockgen -destination mocks/mock_ledger_service.go -package mocks github.com/worldorder/worldorder/internal/domain LedgerService
//go:generate mockgen -destination mocks/mock_conversation_service.go -package mocks github.com/worldorder/worldorder/internal/domain ConversationService

// Messenger delivers messages to the chat platform
type Messenger interface {
	// Reply answers an inbound event; reply tokens are single use
	Reply(ctx context.Context, replyToken string, messages []messaging.Message) error

	// Push sends unsolicited messages to a user
	Push(ctx context.Context, userID string, messages []messaging.Message) error

	// GetProfile looks up a user's display name
	GetProfile(ctx context.Context, userID string) (*messaging.Profile, error)
}

// ProfileDirectory resolves display labels for user ids, degrading to the raw id
type ProfileDirectory interface {
	DisplayName(ctx context.Context, userID string) string
	DisplayNames(ctx context.Context, userIDs []string) map[string]string
}

// WorldService is the tenant state store used by the conversation
type WorldService interface {
	// GetWorld retrieves a world by id
	GetWorld(ctx context.Context, worldID int64) (*World, error)

	// FindWorld resolves an id or share code
	FindWorld(ctx context.Context, ref WorldRef) (*World, error)

	// ListWorlds returns every world, for administration
	ListWorlds(ctx context.Context) ([]*World, error)

	// ListBindings returns the user's bindings joined with world status
	ListBindings(ctx context.Context, userID string) ([]*Binding, error)

	GetCurrentWorld(ctx context.Context, userID string) (*CurrentWorld, error)
	SetCurrentWorld(ctx context.Context, userID string, worldID int64) error

	// CreateWorld creates a world in catalog setup owned by userID. A user who already
	// owns a world gets ErrAlreadyOwner.
	CreateWorld(ctx context.Context, userID string) (*World, error)

	// JoinWorld binds userID as an employee and focuses the world
	JoinWorld(ctx context.Context, userID string, ref WorldRef) (*World, error)

	// SwitchWorld focuses a world the user is already bound to
	SwitchWorld(ctx context.Context, userID string, ref WorldRef) (*World, error)

	// LeaveWorld unbinds an employee; owners must delete instead
	LeaveWorld(ctx context.Context, userID string, ref WorldRef) (*World, error)

	// DeleteWorld permanently removes a world the user owns
	DeleteWorld(ctx context.Context, userID string, ref WorldRef) (*World, error)

	// DiscardUnfinished removes a world that never became active
	DiscardUnfinished(ctx context.Context, userID string, worldID int64) error

	// SaveSetupCatalog persists the first catalog and advances the world to naming
	SaveSetupCatalog(ctx context.Context, worldID int64, catalog *VendorMap) error

	// MarkSetupFailed flags an invalid catalog attempt
	MarkSetupFailed(ctx context.Context, worldID int64) error

	// NameWorld sets the name and activates the world
	NameWorld(ctx context.Context, worldID int64, name string) error

	UpdateCatalog(ctx context.Context, worldID int64, catalog *VendorMap) error
	UpdateOrderFormat(ctx context.Context, worldID int64, format *OrderFormat) error
	UpdateDisplayFormat(ctx context.Context, worldID int64, format *DisplayFormat) error
	UpdateMenuImage(ctx context.Context, worldID int64, url *string) error

	// ImportCatalog replaces the catalog from a spreadsheet
	ImportCatalog(ctx context.Context, worldID int64, sheet *sheetimport.Sheet, mapping *sheetimport.Mapping) (*VendorMap, error)

	// ListMembers returns every binding of a world, owner first
	ListMembers(ctx context.Context, worldID int64) ([]*Binding, error)

	// RemoveMember unbinds an employee on behalf of the owner
	RemoveMember(ctx context.Context, ownerUserID string, worldID int64, memberUserID string) error
}

// LedgerService is the order ledger: live rows plus the history log
type LedgerService interface {
	// CreateOrder records a new order and returns its id
	CreateOrder(ctx context.Context, branch string, items []OrderLine, actor Actor, worldID *int64) (string, error)

	// ModifyOrderItemByName applies a delta (or absolute value) to every live row named itemName
	// within worldScope or with no world
	ModifyOrderItemByName(ctx context.Context, itemName string, value int, isAbsolute bool, worldScope []int64, actor Actor) (*ModifyResult, error)

	// QueryOrdersByDateAndBranch reads orders from create history
	QueryOrdersByDateAndBranch(ctx context.Context, date string, branch *string, worldID *int64) ([]*Order, error)

	// QueryAllOrdersByDate reads every branch's orders with the actor labels
	QueryAllOrdersByDate(ctx context.Context, date string, worldID *int64) ([]*Order, error)

	// ClearAllOrders deletes live rows; history is retained
	ClearAllOrders(ctx context.Context, worldID *int64) (int64, error)
}

// ConversationService turns inbound events into replies
type ConversationService interface {
	HandleEvent(ctx context.Context, event InboundEvent) error
}
