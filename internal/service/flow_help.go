package service

import (
	"context"

	"github.com/worldorder/worldorder/internal/command"
)

func (s *ConversationService) handleHelp(_ context.Context, t *turn, _ *command.Intent) error {
	text, err := render(s.templates.help, map[string]interface{}{"owner": t.state.IsOwner})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}

func (s *ConversationService) handleMenuHelp(_ context.Context, t *turn, _ *command.Intent) error {
	text, err := render(s.templates.menuHelp, map[string]interface{}{"example": catalogExample})
	if err != nil {
		return err
	}
	t.say(text)
	return nil
}

func (s *ConversationService) sayFallback(_ context.Context, t *turn) error {
	t.say(msgFallback)
	return nil
}
