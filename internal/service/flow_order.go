package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/messaging"
)

func (s *ConversationService) handleOrder(ctx context.Context, t *turn, it *command.Intent) error {
	switch it.Kind {
	case command.KindPlaceOrder:
		return s.placeOrder(ctx, t, it)
	case command.KindModifyOrder:
		return s.modifyOrder(ctx, t, it)
	case command.KindQueryOrders:
		return s.queryOrders(ctx, t, it)
	case command.KindOwnerQuery:
		if !t.state.IsOwner {
			t.say(msgOwnerOnly)
			return nil
		}
		return s.ownerQuery(ctx, t, it)
	}
	return nil
}

func (s *ConversationService) placeOrder(ctx context.Context, t *turn, it *command.Intent) error {
	world := t.state.World

	var violations []string
	for _, item := range it.Items {
		if reason := world.OrderFormat.CheckItem(item.ItemName); reason != "" {
			violations = append(violations, fmt.Sprintf("・%s：%s", item.ItemName, reason))
		}
	}
	if len(violations) > 0 {
		t.say("❌ 訂單不符合格式，未送出：\n" + strings.Join(violations, "\n"))
		return nil
	}

	actor := s.actor(ctx, t)
	worldID := world.ID
	orderID, err := s.ledger.CreateOrder(ctx, it.Branch, it.Items, actor, &worldID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("✅ 訂單已送出")
	if it.Branch != "" {
		fmt.Fprintf(&b, "\n分店：%s", it.Branch)
	}
	for _, item := range it.Items {
		fmt.Fprintf(&b, "\n%s %d", item.ItemName, item.Quantity)
	}
	if it.Date != "" {
		fmt.Fprintf(&b, "\n備註日期：%s", it.Date)
	}
	fmt.Fprintf(&b, "\n訂單編號：%s", orderID)
	t.say(b.String())

	if world.OwnerUserID != "" && world.OwnerUserID != actor.UserID {
		branch, items := it.Branch, it.Items
		t.after = append(t.after, func(ctx context.Context) {
			s.notifyOwner(ctx, world, actor, branch, items, orderID)
		})
	}
	return nil
}

// notifyOwner pushes a new-order summary to the world owner. Its failure never
// affects the order or the reply already sent.
func (s *ConversationService) notifyOwner(ctx context.Context, world *domain.World, actor domain.Actor, branch string, items []domain.OrderLine, orderID string) {
	if !s.limiter.Allow(notifyNamespace, world.OwnerUserID) {
		s.logger.WithField("world_id", world.ID).Debug("Owner notification throttled")
		return
	}

	lines := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		lines = append(lines, map[string]interface{}{"name": item.ItemName, "qty": item.Quantity})
	}
	text, err := render(s.templates.ownerNotification, map[string]interface{}{
		"actor":    actor.Label,
		"world":    world.DisplayName(),
		"branch":   branch,
		"items":    lines,
		"order_id": orderID,
	})
	if err == nil {
		err = s.messenger.Push(ctx, world.OwnerUserID, messaging.SplitText(text))
	}
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"world_id": world.ID,
			"order_id": orderID,
			"error":    err.Error(),
		}).Warn("Failed to notify owner of new order")
	}
}

// modifyLine renders one changed row, e.g. "雞蛋: 10 → 15 (+5)"
func modifyLine(r domain.ModifyItemResult) string {
	line := fmt.Sprintf("%s: %d → %d (%+d)", r.ItemName, r.OldQuantity, r.NewQuantity, r.NewQuantity-r.OldQuantity)
	if r.Branch != "" {
		line += "（" + r.Branch + "）"
	}
	if r.Deleted {
		line += " 已刪除"
	}
	return line
}

func (s *ConversationService) modifyOrder(ctx context.Context, t *turn, it *command.Intent) error {
	if it.Incomplete || it.Invalid {
		t.say(msgModifyUsage)
		return nil
	}

	result, err := s.ledger.ModifyOrderItemByName(ctx, it.Item, it.Value, it.Absolute, t.state.BoundWorldIDs(), s.actor(ctx, t))
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		t.sayf("找不到「%s」的訂單。", it.Item)
		return nil
	}

	lines := make([]string, 0, len(result.Items)+1)
	lines = append(lines, fmt.Sprintf("✏️ 已修改 %d 筆", result.ModifiedCount))
	for _, r := range result.Items {
		lines = append(lines, modifyLine(r))
	}
	t.say(strings.Join(lines, "\n"))
	return nil
}

func dateLabel(date string) string {
	if domain.IsTodayToken(date) {
		return "今天"
	}
	return date
}

func (s *ConversationService) queryOrders(ctx context.Context, t *turn, it *command.Intent) error {
	var branch *string
	if it.Branch != "" {
		branch = &it.Branch
	}
	worldID := t.worldID()
	orders, err := s.ledger.QueryOrdersByDateAndBranch(ctx, it.Date, branch, &worldID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		t.sayf("%s沒有訂單。", dateLabel(it.Date))
		return nil
	}
	t.sayf("📦 %s的訂單（%d 筆）\n%s", dateLabel(it.Date), len(orders), s.renderOrders(t.state.World, orders, false))
	return nil
}

func (s *ConversationService) ownerQuery(ctx context.Context, t *turn, it *command.Intent) error {
	worldID := t.worldID()
	orders, err := s.ledger.QueryAllOrdersByDate(ctx, it.Date, &worldID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		t.sayf("%s沒有訂單。", dateLabel(it.Date))
		return nil
	}
	t.sayf("📊 %s全部訂單（%d 筆）\n%s", dateLabel(it.Date), len(orders), s.renderOrders(t.state.World, orders, true))
	return nil
}

// renderOrders aggregates per (vendor, branch, item). A configured display format wins;
// otherwise lines are grouped under vendor headings.
func (s *ConversationService) renderOrders(world *domain.World, orders []*domain.Order, withUsers bool) string {
	vendorOf := func(item string) string {
		return domain.ResolveVendorForItemName(item, world.Catalog, s.fallback)
	}
	lines := domain.AggregateDisplayLines(orders, vendorOf)

	if world.DisplayFormat != nil {
		format := *world.DisplayFormat
		if !withUsers {
			hide := false
			format.ShowUsers = &hide
		}
		return format.Render(lines)
	}

	var b strings.Builder
	vendor := ""
	for i, l := range lines {
		if i == 0 || l.Vendor != vendor {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "【%s】\n", l.Vendor)
			vendor = l.Vendor
		}
		if l.Branch != "" {
			fmt.Fprintf(&b, "%s ", l.Branch)
		}
		fmt.Fprintf(&b, "%s %d", l.Item, l.Qty)
		if withUsers && len(l.Users) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(l.Users, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ConversationService) handleClearOrders(ctx context.Context, t *turn, _ *command.Intent) error {
	worldID := t.worldID()
	n, err := s.ledger.ClearAllOrders(ctx, &worldID)
	if err != nil {
		return err
	}
	t.sayf("🧹 已清除 %d 筆訂單品項（歷史紀錄保留）。", n)
	return nil
}
