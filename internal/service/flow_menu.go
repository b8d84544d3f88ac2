package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/messaging"
)

func (s *ConversationService) handleMenu(ctx context.Context, t *turn, it *command.Intent) error {
	world := t.state.World
	if it.Kind == command.KindViewMenu {
		if !world.Catalog.HasItems() {
			t.say(msgMenuEmpty)
		} else {
			t.sayf("📋 「%s」菜單\n%s", world.DisplayName(), domain.RenderVendorMapText(world.Catalog))
		}
		if world.MenuImageURL != nil {
			t.replies = append(t.replies, messaging.Image(*world.MenuImageURL))
		}
		return nil
	}

	if !t.state.IsOwner {
		t.say(msgOwnerOnly)
		return nil
	}
	if it.Incomplete {
		t.sayf("請在「設定菜單」下一行開始貼上整份菜單，例如：\n設定菜單\n%s", catalogExample)
		return nil
	}
	catalog, issue := domain.ParseVendorMapText(it.CatalogText)
	if issue != nil {
		t.say(catalogDiagnostic(issue))
		return nil
	}
	if err := s.worlds.UpdateCatalog(ctx, t.worldID(), catalog); err != nil {
		return err
	}
	t.sayf("✅ 菜單已更新（%d 個廠商、%d 個品項）", len(catalog.Vendors), catalog.ItemCount())
	return nil
}

func menuMutationUsage(kind command.Kind) string {
	switch kind {
	case command.KindAddItem:
		return "新增品項請用：\n新增品項\n全聯\n雞蛋 10"
	case command.KindRemoveItem:
		return "刪除品項請用：\n刪除品項\n全聯\n雞蛋"
	default:
		return "修改品項請用：\n修改品項\n全聯\n雞蛋\n土雞蛋 12（或只寫數量）"
	}
}

// handleMenuMutation edits a copy of the catalog and saves it whole
func (s *ConversationService) handleMenuMutation(ctx context.Context, t *turn, it *command.Intent) error {
	if it.Incomplete {
		t.say(menuMutationUsage(it.Kind))
		return nil
	}
	if it.Invalid {
		t.sayf("數量必須是 0 到 %d 的整數。\n\n%s", domain.MaxCatalogQuantity, menuMutationUsage(it.Kind))
		return nil
	}

	catalog := t.state.World.Catalog.Clone()
	if catalog == nil {
		catalog = &domain.VendorMap{}
	}

	var err error
	var done string
	switch it.Kind {
	case command.KindAddItem:
		qty := 0
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		err = catalog.AddItem(it.Vendor, it.Item, domain.NewQuantityEntry(qty))
		done = fmt.Sprintf("✅ 已新增「%s」到「%s」", it.Item, it.Vendor)
	case command.KindRemoveItem:
		err = catalog.RemoveItem(it.Vendor, it.Item)
		done = fmt.Sprintf("✅ 已從「%s」刪除「%s」", it.Vendor, it.Item)
	case command.KindUpdateItem:
		err = catalog.UpdateItem(it.Vendor, it.Item, it.NewName, it.NewQuantity)
		done = fmt.Sprintf("✅ 已更新「%s」的「%s」", it.Vendor, it.Item)
	}

	var ve domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrCatalogItemExists):
		t.sayf("「%s」已經有這個品項了。", it.Vendor)
		return nil
	case errors.Is(err, domain.ErrCatalogNotFound):
		t.sayf("找不到「%s」底下的「%s」。", it.Vendor, it.Item)
		return nil
	case errors.As(err, &ve):
		t.sayf("品項無法儲存：%s", ve.Message)
		return nil
	case err != nil:
		return err
	}

	if err := s.worlds.UpdateCatalog(ctx, t.worldID(), catalog); err != nil {
		return err
	}
	t.say(done)
	return nil
}

func (s *ConversationService) handleMenuImage(ctx context.Context, t *turn, it *command.Intent) error {
	if it.Kind == command.KindClearMenuImage {
		if err := s.worlds.UpdateMenuImage(ctx, t.worldID(), nil); err != nil {
			return err
		}
		t.say(msgImageCleared)
		return nil
	}

	switch {
	case it.Incomplete:
		t.say(msgImageIncomplete)
		return nil
	case it.Invalid:
		t.say(msgImageInvalid)
		return nil
	}
	url := it.URL
	if err := s.worlds.UpdateMenuImage(ctx, t.worldID(), &url); err != nil {
		return err
	}
	t.say(msgImageSet)
	t.replies = append(t.replies, messaging.Image(url))
	return nil
}
