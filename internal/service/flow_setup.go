package service

import (
	"context"
	"errors"
	"strings"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
)

// handleCatalogText treats the whole message as the first catalog. A rejected block
// flags the world as failed and nothing is stored.
func (s *ConversationService) handleCatalogText(ctx context.Context, t *turn, _ *command.Intent) error {
	catalog, issue := domain.ParseVendorMapText(t.in.Raw)
	if issue != nil {
		if err := s.worlds.MarkSetupFailed(ctx, t.worldID()); err != nil {
			return err
		}
		t.say(catalogDiagnostic(issue) + "\n\n請重新輸入菜單，或輸入「重來」重新開始。")
		return nil
	}

	err := s.worlds.SaveSetupCatalog(ctx, t.worldID(), catalog)
	var ve domain.ValidationError
	if errors.As(err, &ve) || errors.Is(err, domain.ErrEmptyCatalog) {
		t.sayf("❌ 菜單無法儲存：%s\n\n範例：\n%s", err.Error(), catalogExample)
		return nil
	}
	if err != nil {
		return err
	}

	t.sayf("✅ 菜單已儲存（%d 個廠商、%d 個品項）\n請幫你的世界取個名字：", len(catalog.Vendors), catalog.ItemCount())
	return nil
}

func (s *ConversationService) handleNaming(ctx context.Context, t *turn, _ *command.Intent) error {
	if len(t.in.Lines) != 1 {
		t.say(msgNameInvalid)
		return nil
	}
	name := strings.TrimSpace(t.in.Text)

	err := s.worlds.NameWorld(ctx, t.worldID(), name)
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		t.say(msgNameInvalid)
		return nil
	}
	if err != nil {
		return err
	}

	text, err := render(s.templates.onboarding, map[string]interface{}{
		"name": name,
		"code": t.state.World.Code,
	})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}

// handleSetupRestart abandons an unfinished world: the owner deletes it, anyone else
// is unbound
func (s *ConversationService) handleSetupRestart(ctx context.Context, t *turn, _ *command.Intent) error {
	if err := s.worlds.DiscardUnfinished(ctx, t.userID(), t.worldID()); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id":  t.userID(),
		"world_id": t.worldID(),
	}).Info("Unfinished world abandoned")

	if remaining := len(t.state.Bindings) - 1; remaining > 0 {
		t.sayf("已取消。你還在 %d 個世界中，輸入「我的世界」查看。", remaining)
		return nil
	}
	return s.sayWelcome(ctx, t)
}

// matchOrderShaped intercepts orders sent to a world that is not open yet
func (s *ConversationService) matchOrderShaped(t *turn) *command.Intent {
	if s.parser.OrderShaped(t.in) {
		return &command.Intent{Kind: command.KindPlaceOrder}
	}
	return nil
}

func (s *ConversationService) handleNotReady(_ context.Context, t *turn, _ *command.Intent) error {
	t.sayf(msgNotReady, t.state.World.DisplayName())
	return nil
}

func (s *ConversationService) sayWaiting(_ context.Context, t *turn) error {
	t.sayf("世界「%s」還在設定中。\n輸入「重來」可以離開這個世界。", t.state.World.DisplayName())
	return nil
}
