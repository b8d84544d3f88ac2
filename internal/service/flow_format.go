package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/kv"
)

const (
	pendingOrderFormat   = "order"
	pendingDisplayFormat = "display"

	orderFormatExample   = `{"requiredFields": ["規格"], "itemFormat": "^.+ .+$"}`
	displayFormatExample = `{"template": "{vendor}｜{branch} {item} x{qty} {users}", "showUsers": true}`
)

func (s *ConversationService) handleFormat(ctx context.Context, t *turn, it *command.Intent) error {
	switch it.Kind {
	case command.KindClearOrderFormat:
		if err := s.worlds.UpdateOrderFormat(ctx, t.worldID(), nil); err != nil {
			return err
		}
		t.say("訂單格式已清除。")
	case command.KindClearDisplayFormat:
		if err := s.worlds.UpdateDisplayFormat(ctx, t.worldID(), nil); err != nil {
			return err
		}
		t.say("顯示格式已清除。")
	case command.KindSetOrderFormat:
		if it.Payload == "" {
			return s.promptFormat(ctx, t, pendingOrderFormat)
		}
		return s.applyOrderFormat(ctx, t, it.Payload)
	case command.KindSetDisplayFormat:
		if it.Payload == "" {
			return s.promptFormat(ctx, t, pendingDisplayFormat)
		}
		return s.applyDisplayFormat(ctx, t, it.Payload)
	}
	return nil
}

// promptFormat remembers which format the owner is editing and shows the current one
func (s *ConversationService) promptFormat(ctx context.Context, t *turn, kind string) error {
	if err := s.store.Set(ctx, pendingFormatKey(t.userID()), kind, pendingFormatTTL); err != nil {
		return err
	}

	world := t.state.World
	var current interface{}
	example := orderFormatExample
	title := "訂單格式"
	if kind == pendingOrderFormat {
		if world.OrderFormat != nil {
			current = world.OrderFormat
		}
	} else {
		example, title = displayFormatExample, "顯示格式"
		if world.DisplayFormat != nil {
			current = world.DisplayFormat
		}
	}

	shown := "（未設定）"
	if current != nil {
		raw, err := json.Marshal(current)
		if err != nil {
			return err
		}
		shown = string(raw)
	}
	t.sayf("目前%s：%s\n\n請在 10 分鐘內貼上新的 JSON 設定，例如：\n%s", title, shown, example)
	return nil
}

func (s *ConversationService) clearPending(ctx context.Context, t *turn) {
	if err := s.store.Delete(ctx, pendingFormatKey(t.userID())); err != nil {
		s.logger.WithField("user_id", t.userID()).WithField("error", err.Error()).Warn("Failed to clear pending format edit")
	}
}

func (s *ConversationService) applyOrderFormat(ctx context.Context, t *turn, raw string) error {
	format, err := domain.ParseOrderFormat(raw)
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		t.sayf(msgFormatInvalid, ve.Message)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.worlds.UpdateOrderFormat(ctx, t.worldID(), format); err != nil {
		return err
	}
	s.clearPending(ctx, t)
	t.say("✅ 訂單格式已更新，之後的訂單都會依此檢查。")
	return nil
}

func (s *ConversationService) applyDisplayFormat(ctx context.Context, t *turn, raw string) error {
	format, err := domain.ParseDisplayFormat(raw)
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		t.sayf(msgFormatInvalid, ve.Message)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.worlds.UpdateDisplayFormat(ctx, t.worldID(), format); err != nil {
		return err
	}
	s.clearPending(ctx, t)
	t.say("✅ 顯示格式已更新，查詢訂單時會套用。")
	return nil
}

// handleFormatPayload routes a bare JSON object. A pending edit decides which format it
// belongs to; without one it is tried as an order format when it differs from the
// stored one. That fallback is a weak heuristic and anything else is not understood.
func (s *ConversationService) handleFormatPayload(ctx context.Context, t *turn, it *command.Intent) error {
	if !t.state.IsOwner {
		t.say(msgFallback)
		return nil
	}

	pending, err := s.store.Get(ctx, pendingFormatKey(t.userID()))
	switch {
	case err == nil && pending == pendingDisplayFormat:
		return s.applyDisplayFormat(ctx, t, it.Payload)
	case err == nil:
		return s.applyOrderFormat(ctx, t, it.Payload)
	case !errors.Is(err, kv.ErrMiss):
		s.logger.WithField("user_id", t.userID()).WithField("error", err.Error()).Warn("Failed to read pending format edit")
	}

	format, err := domain.ParseOrderFormat(it.Payload)
	if err != nil || format.Equal(t.state.World.OrderFormat) {
		t.say(msgFallback)
		return nil
	}
	return s.applyOrderFormat(ctx, t, it.Payload)
}
