package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/logger"
	"github.com/worldorder/worldorder/pkg/tracing"
)

// LedgerService writes orders to the live table and the history log, and answers
// date queries from history
type LedgerService struct {
	repo   domain.OrderRepository
	logger logger.Logger
	dates  domain.DateMatcher
	now    func() time.Time
}

func NewLedgerService(repo domain.OrderRepository, loc *time.Location, logger logger.Logger) *LedgerService {
	return &LedgerService{
		repo:   repo,
		logger: logger,
		dates:  domain.DateMatcher{Location: loc},
		now:    time.Now,
	}
}

// newOrderID is millisecond time plus 8 random hex characters
func newOrderID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), random[:8])
}

// CreateOrder records every line and one create_order history entry
func (s *LedgerService) CreateOrder(ctx context.Context, branch string, items []domain.OrderLine, actor domain.Actor, worldID *int64) (string, error) {
	if len(items) == 0 {
		return "", domain.NewValidationError("an order needs at least one item")
	}
	for _, it := range items {
		if strings.TrimSpace(it.ItemName) == "" {
			return "", domain.NewValidationError("item name is required")
		}
		if !domain.ValidOrderQuantity(it.Quantity) {
			return "", domain.NewValidationError(fmt.Sprintf("quantity for %s must be between %d and %d",
				it.ItemName, domain.MinOrderQuantity, domain.MaxOrderQuantity))
		}
	}

	return tracing.TraceMethodWithResult(ctx, "LedgerService", "CreateOrder", func(ctx context.Context) (string, error) {
		now := s.now().UTC()
		order := &domain.Order{
			ID:         newOrderID(now),
			Branch:     strings.TrimSpace(branch),
			WorldID:    worldID,
			UserID:     actor.UserID,
			ActorLabel: actor.Label,
			Items:      items,
			CreatedAt:  now,
		}
		entry := &domain.HistoryEntry{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			Action:     domain.HistoryActionCreateOrder,
			Branch:     order.Branch,
			WorldID:    worldID,
			UserID:     actor.UserID,
			ActorLabel: actor.Label,
			After:      &domain.HistorySnapshot{Items: items},
			CreatedAt:  now,
		}

		if err := s.repo.CreateOrder(ctx, order, entry); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"order_id": order.ID,
				"user_id":  actor.UserID,
				"error":    err.Error(),
			}).Error("Failed to create order")
			return "", err
		}

		tracing.RecordOrderCreated(ctx)
		return order.ID, nil
	})
}

// ModifyOrderItemByName applies value to every live row named itemName in worldScope or
// with no world. A delta clamps at zero; zero deletes the row. Each row is logged, and
// the rows change together or not at all.
func (s *LedgerService) ModifyOrderItemByName(ctx context.Context, itemName string, value int, isAbsolute bool, worldScope []int64, actor domain.Actor) (*domain.ModifyResult, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if isAbsolute && (value < 0 || value > domain.MaxOrderQuantity) {
		return nil, domain.NewValidationError(fmt.Sprintf("quantity must be between 0 and %d", domain.MaxOrderQuantity))
	}

	return tracing.TraceMethodWithResult(ctx, "LedgerService", "ModifyOrderItemByName", func(ctx context.Context) (*domain.ModifyResult, error) {
		rows, err := s.repo.FindLiveItems(ctx, itemName, worldScope)
		if err != nil {
			return nil, err
		}

		result := &domain.ModifyResult{Items: []domain.ModifyItemResult{}}
		mods := make([]domain.ItemModification, 0, len(rows))
		for _, row := range rows {
			newQty := value
			if !isAbsolute {
				newQty = row.Quantity + value
			}
			if newQty < 0 {
				newQty = 0
			}
			if newQty > domain.MaxOrderQuantity {
				newQty = domain.MaxOrderQuantity
			}

			action := domain.HistoryActionModifyQuantity
			after := &domain.HistorySnapshot{Items: []domain.OrderLine{{ItemName: row.ItemName, Quantity: newQty}}}
			if newQty == 0 {
				action = domain.HistoryActionDeleteItem
				after = &domain.HistorySnapshot{Items: []domain.OrderLine{}}
			}

			entry := &domain.HistoryEntry{
				ID:         uuid.NewString(),
				OrderID:    row.OrderID,
				Action:     action,
				Branch:     row.Branch,
				WorldID:    row.WorldID,
				UserID:     actor.UserID,
				ActorLabel: actor.Label,
				Before:     &domain.HistorySnapshot{Items: []domain.OrderLine{{ItemName: row.ItemName, Quantity: row.Quantity}}},
				After:      after,
				CreatedAt:  s.now().UTC(),
			}
			mods = append(mods, domain.ItemModification{Item: row, NewQuantity: newQty, Entry: entry})
			result.Items = append(result.Items, domain.ModifyItemResult{
				OrderID:     row.OrderID,
				Branch:      row.Branch,
				ItemName:    row.ItemName,
				OldQuantity: row.Quantity,
				NewQuantity: newQty,
				Deleted:     newQty == 0,
			})
		}

		if len(mods) == 0 {
			return result, nil
		}
		if err := s.repo.ApplyModifications(ctx, mods); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"item":  itemName,
				"rows":  len(mods),
				"error": err.Error(),
			}).Error("Failed to modify order items")
			return nil, err
		}
		result.ModifiedCount = len(result.Items)
		return result, nil
	})
}

func (s *LedgerService) queryHistory(ctx context.Context, date string, filter domain.HistoryFilter) ([]*domain.Order, error) {
	entries, err := s.repo.ListCreateHistory(ctx, filter)
	if err != nil {
		return nil, err
	}

	matcher := s.dates
	matcher.Now = s.now

	orders := []*domain.Order{}
	for _, e := range entries {
		if matcher.Match(e.CreatedAt, date) {
			orders = append(orders, e.ToOrder())
		}
	}
	return orders, nil
}

// QueryOrdersByDateAndBranch reads orders created on date, optionally for one branch
func (s *LedgerService) QueryOrdersByDateAndBranch(ctx context.Context, date string, branch *string, worldID *int64) ([]*domain.Order, error) {
	return s.queryHistory(ctx, date, domain.HistoryFilter{WorldID: worldID, Branch: branch})
}

// QueryAllOrdersByDate reads every branch's orders created on date
func (s *LedgerService) QueryAllOrdersByDate(ctx context.Context, date string, worldID *int64) ([]*domain.Order, error) {
	return s.queryHistory(ctx, date, domain.HistoryFilter{WorldID: worldID})
}

// ClearAllOrders deletes live rows; history is kept
func (s *LedgerService) ClearAllOrders(ctx context.Context, worldID *int64) (int64, error) {
	n, err := s.repo.ClearLive(ctx, worldID)
	if err != nil {
		return 0, err
	}
	s.logger.WithField("deleted", n).Info("Live orders cleared")
	return n, nil
}
