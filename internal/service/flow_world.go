package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
)

func (s *ConversationService) handleWorld(ctx context.Context, t *turn, it *command.Intent) error {
	switch it.Kind {
	case command.KindListWorlds:
		t.say(worldList(t.state))
	case command.KindViewWorld:
		return s.viewWorld(t)
	case command.KindSwitchPrompt:
		t.say(msgSwitchPrompt + "\n\n" + worldList(t.state))
	case command.KindLeavePrompt:
		t.say(msgLeavePrompt)
	case command.KindSwitchWorld:
		return s.switchWorld(ctx, t, it.World)
	case command.KindLeaveWorld:
		return s.leaveWorld(ctx, t, it.World)
	case command.KindConfirmDelete:
		return s.deleteWorld(ctx, t, it.World)
	}
	return nil
}

func worldList(state *ConversationState) string {
	var b strings.Builder
	b.WriteString("🌏 你的世界：")
	for _, binding := range state.Bindings {
		marker := "  "
		if state.Current != nil && binding.WorldID == state.Current.WorldID {
			marker = "▶ "
		}
		fmt.Fprintf(&b, "\n%s#%d %s｜%s｜%s", marker, binding.WorldID, binding.WorldLabel(),
			roleLabel(binding.Role), statusLabel(binding.WorldStatus))
	}
	return b.String()
}

func (s *ConversationService) viewWorld(t *turn) error {
	world := t.state.World
	text, err := render(s.templates.worldCard, map[string]interface{}{
		"name":   world.DisplayName(),
		"id":     world.ID,
		"code":   world.Code,
		"owner":  t.state.IsOwner,
		"status": statusLabel(world.Status),
		"items":  world.Catalog.ItemCount(),
		"image":  world.MenuImageURL != nil,
	})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}

// worldMiss answers lookups that did not resolve to a world the user can act on
func worldMiss(t *turn, err error, ref domain.WorldRef) bool {
	switch {
	case domain.IsNotFound(err):
		t.sayf("找不到世界 %s，請確認代碼或編號。", ref)
	case errors.Is(err, domain.ErrNotBound):
		t.sayf("你不在世界 %s 中。要加入請輸入：加入世界 %s", ref, ref)
	default:
		return false
	}
	return true
}

func (s *ConversationService) switchWorld(ctx context.Context, t *turn, ref domain.WorldRef) error {
	world, err := s.worlds.SwitchWorld(ctx, t.userID(), ref)
	if worldMiss(t, err, ref) {
		return nil
	}
	if err != nil {
		return err
	}
	if world.IsActive() {
		t.sayf("已切換到世界「%s」。", world.DisplayName())
	} else {
		t.sayf("已切換到世界「%s」（尚未完成設定）。", world.DisplayName())
	}
	return nil
}

func (s *ConversationService) leaveWorld(ctx context.Context, t *turn, ref domain.WorldRef) error {
	world, err := s.worlds.LeaveWorld(ctx, t.userID(), ref)
	var pe *domain.PermissionError
	if errors.As(err, &pe) {
		t.say(msgOwnerCannotLeave)
		return nil
	}
	if worldMiss(t, err, ref) {
		return nil
	}
	if err != nil {
		return err
	}
	t.sayf("已退出世界「%s」。", world.DisplayName())
	return nil
}

func (s *ConversationService) deleteWorld(ctx context.Context, t *turn, ref domain.WorldRef) error {
	world, err := s.worlds.DeleteWorld(ctx, t.userID(), ref)
	var pe *domain.PermissionError
	if errors.As(err, &pe) {
		t.say("只有擁有者可以刪除世界。")
		return nil
	}
	if worldMiss(t, err, ref) {
		return nil
	}
	if err != nil {
		return err
	}
	t.sayf("🗑 世界「%s」已永久刪除，相關訂單與成員也一併移除。", world.DisplayName())
	return nil
}
