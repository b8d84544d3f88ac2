package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_order_repository.go -package mocks github.com/worldorder/worldorder/internal/domain OrderRepository

const (
	MinOrderQuantity = 1
	MaxOrderQuantity = 999999
)

// OrderLine is one item of an order as typed by a member
type OrderLine struct {
	ItemName string `json:"item"`
	Quantity int    `json:"qty"`
}

// Actor is whoever sent the message that caused a ledger write
type Actor struct {
	UserID string
	Label  string
}

// Order groups the lines of one order message
type Order struct {
	ID         string      `json:"id"`
	Branch     string      `json:"branch"`
	WorldID    *int64      `json:"world_id,omitempty"`
	UserID     string      `json:"user_id"`
	ActorLabel string      `json:"actor_label"`
	Items      []OrderLine `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem is a row of the live projection
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"order_id"`
	Branch    string    `json:"branch"`
	WorldID   *int64    `json:"world_id,omitempty"`
	ItemName  string    `json:"item"`
	Quantity  int       `json:"qty"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryAction string

const (
	HistoryActionCreateOrder    HistoryAction = "create_order"
	HistoryActionModifyQuantity HistoryAction = "modify_quantity"
	HistoryActionDeleteItem     HistoryAction = "delete_item"
)

// HistorySnapshot is the before or after state recorded with a history entry
type HistorySnapshot struct {
	Items []OrderLine `json:"items"`
}

// Value implements the driver.Valuer interface for JSONB columns
func (s HistorySnapshot) Value() (driver.Value, error) {
	if s.Items == nil {
		s.Items = []OrderLine{}
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface
func (s *HistorySnapshot) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// HistoryEntry is an immutable record of one ledger mutation
type HistoryEntry struct {
	ID         string           `json:"id"`
	OrderID    string           `json:"order_id"`
	Action     HistoryAction    `json:"action"`
	Branch     string           `json:"branch"`
	WorldID    *int64           `json:"world_id,omitempty"`
	UserID     string           `json:"user_id"`
	ActorLabel string           `json:"actor_label"`
	Before     *HistorySnapshot `json:"before,omitempty"`
	After      *HistorySnapshot `json:"after,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ToOrder rebuilds the order a create_order entry recorded
func (h *HistoryEntry) ToOrder() *Order {
	o := &Order{
		ID:         h.OrderID,
		Branch:     h.Branch,
		WorldID:    h.WorldID,
		UserID:     h.UserID,
		ActorLabel: h.ActorLabel,
		CreatedAt:  h.CreatedAt,
	}
	if h.After != nil {
		o.Items = append(o.Items, h.After.Items...)
	}
	return o
}

// ModifyItemResult is the outcome for one live row
type ModifyItemResult struct {
	OrderID     string `json:"order_id"`
	Branch      string `json:"branch"`
	ItemName    string `json:"item"`
	OldQuantity int    `json:"old_qty"`
	NewQuantity int    `json:"new_qty"`
	Deleted     bool   `json:"deleted"`
}

type ModifyResult struct {
	ModifiedCount int                `json:"modified_count"`
	Items         []ModifyItemResult `json:"items"`
}

// ItemModification is one live row's new quantity and the history entry that records it
type ItemModification struct {
	Item        *OrderItem
	NewQuantity int
	Entry       *HistoryEntry
}

// HistoryFilter narrows create_order history reads; nil fields do not filter
type HistoryFilter struct {
	WorldID *int64
	Branch  *string
}

// OrderRepository persists the live projection and the history log
type OrderRepository interface {
	// CreateOrder inserts every line, then the create_order entry, in one transaction
	CreateOrder(ctx context.Context, order *Order, entry *HistoryEntry) error
	// FindLiveItems returns live rows named itemName in the given worlds or with no world
	FindLiveItems(ctx context.Context, itemName string, worldIDs []int64) ([]*OrderItem, error)
	// ApplyModifications updates (or deletes at quantity 0) every row and logs each entry,
	// all in one transaction
	ApplyModifications(ctx context.Context, mods []ItemModification) error
	ListCreateHistory(ctx context.Context, filter HistoryFilter) ([]*HistoryEntry, error)
	// ClearLive deletes live rows of one world, or every row when worldID is nil
	ClearLive(ctx context.Context, worldID *int64) (int64, error)
}

// ValidOrderQuantity reports whether q is an acceptable order line quantity
func ValidOrderQuantity(q int) bool {
	return q >= MinOrderQuantity && q <= MaxOrderQuantity
}

var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	shortDatePattern = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})$`)
)

// IsDateToken reports whether s looks like a calendar date
func IsDateToken(s string) bool {
	s = strings.TrimSpace(s)
	return isoDatePattern.MatchString(s)
}

// IsTodayToken reports whether s names today
func IsTodayToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "今天", "今日":
		return true
	}
	return false
}

// DateMatcher compares entry times against a user-typed date token in a fixed timezone
type DateMatcher struct {
	Location *time.Location
	Now      func() time.Time
}

// Match reports whether t falls on the day token names. "today"/"今天", YYYY-MM-DD
// (also with / or .) and M/D of the current year are understood; any other token
// matches every time.
func (m DateMatcher) Match(t time.Time, token string) bool {
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	y, mo, d, ok := m.resolve(token, now().In(loc))
	if !ok {
		return true
	}
	ty, tmo, td := t.In(loc).Date()
	return ty == y && tmo == mo && td == d
}

func (m DateMatcher) resolve(token string, now time.Time) (int, time.Month, int, bool) {
	token = strings.TrimSpace(token)
	if token == "" || IsTodayToken(token) {
		y, mo, d := now.Date()
		return y, mo, d, true
	}
	if p := isoDatePattern.FindStringSubmatch(token); p != nil {
		y, _ := strconv.Atoi(p[1])
		mo, _ := strconv.Atoi(p[2])
		d, _ := strconv.Atoi(p[3])
		return y, time.Month(mo), d, validDay(mo, d)
	}
	if p := shortDatePattern.FindStringSubmatch(token); p != nil {
		mo, _ := strconv.Atoi(p[1])
		d, _ := strconv.Atoi(p[2])
		return now.Year(), time.Month(mo), d, validDay(mo, d)
	}
	return 0, 0, 0, false
}

func validDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
