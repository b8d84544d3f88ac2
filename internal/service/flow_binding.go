package service

import (
	"context"
	"errors"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
)

// handleBinding answers the pre-binding grammar
func (s *ConversationService) handleBinding(ctx context.Context, t *turn, it *command.Intent) error {
	switch it.Kind {
	case command.KindRestart:
		return s.sayWelcome(ctx, t)
	case command.KindJoinPrompt:
		t.say(msgJoinPrompt)
	case command.KindJoinWorld, command.KindLookupWorld:
		if it.Invalid || !it.HasWorld {
			t.say(msgInvalidWorldRef)
			return nil
		}
		return s.joinWorld(ctx, t, it.World)
	case command.KindCreateWorld:
		return s.createWorld(ctx, t)
	}
	return nil
}

// handleActiveBinding only sees keyword forms, so bare ids reach world management
func (s *ConversationService) handleActiveBinding(ctx context.Context, t *turn, it *command.Intent) error {
	switch it.Kind {
	case command.KindRestart:
		t.sayf(msgActiveRestart, t.state.World.DisplayName())
		return nil
	case command.KindCreateWorld:
		return s.createWorld(ctx, t)
	}
	return s.handleBinding(ctx, t, it)
}

func (s *ConversationService) joinWorld(ctx context.Context, t *turn, ref domain.WorldRef) error {
	world, err := s.worlds.JoinWorld(ctx, t.userID(), ref)
	switch {
	case errors.Is(err, domain.ErrAlreadyBound):
		switched, err := s.worlds.SwitchWorld(ctx, t.userID(), ref)
		if err != nil {
			return err
		}
		t.sayf("你已經在世界「%s」中了，已切換過去。", switched.DisplayName())
		return nil
	case domain.IsNotFound(err):
		t.sayf("找不到世界 %s，請確認代碼或編號。", ref)
		return nil
	case err != nil:
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  t.userID(),
		"world_id": world.ID,
	}).Info("User joined world")

	if world.IsActive() {
		t.sayf("✅ 已加入世界「%s」！\n輸入「說明」查看可用指令。", world.DisplayName())
	} else {
		t.sayf("✅ 已加入世界「%s」。\n這個世界還在設定中，完成後就可以下單了。", world.DisplayName())
	}
	return nil
}

func (s *ConversationService) createWorld(ctx context.Context, t *turn) error {
	world, err := s.worlds.CreateWorld(ctx, t.userID())
	if errors.Is(err, domain.ErrAlreadyOwner) {
		t.say(msgAlreadyOwner)
		return nil
	}
	if err != nil {
		return err
	}

	text, err := render(s.templates.setupGuide, map[string]interface{}{
		"id":      world.ID,
		"code":    world.Code,
		"example": catalogExample,
	})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}

func (s *ConversationService) sayWelcome(_ context.Context, t *turn) error {
	text, err := render(s.templates.welcome, map[string]interface{}{"name": ""})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}
