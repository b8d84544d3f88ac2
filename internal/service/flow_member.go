package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/domain"
)

func (s *ConversationService) handleMembers(ctx context.Context, t *turn, it *command.Intent) error {
	if it.Kind == command.KindViewMembers {
		return s.listMembers(ctx, t)
	}
	if it.Incomplete {
		t.say(msgMemberIncomplete)
		return nil
	}

	err := s.worlds.RemoveMember(ctx, t.userID(), t.worldID(), it.TargetUserID)
	var pe *domain.PermissionError
	var ve domain.ValidationError
	switch {
	case errors.As(err, &pe):
		t.say(msgOwnerOnly)
	case errors.As(err, &ve):
		t.say(msgRemoveSelf)
	case errors.Is(err, domain.ErrMemberNotFound):
		t.sayf("找不到成員 %s。", it.TargetUserID)
	case err != nil:
		return err
	default:
		s.logger.WithFields(map[string]interface{}{
			"world_id":  t.worldID(),
			"member_id": it.TargetUserID,
		}).Info("Member removed")
		t.sayf("已移除成員 %s。", it.TargetUserID)
	}
	return nil
}

func (s *ConversationService) listMembers(ctx context.Context, t *turn) error {
	members, err := s.worlds.ListMembers(ctx, t.worldID())
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	names := s.profiles.DisplayNames(ctx, ids)

	var b strings.Builder
	fmt.Fprintf(&b, "👥 成員（%d 人）", len(members))
	for _, m := range members {
		icon := "👤"
		if m.IsOwner() {
			icon = "👑"
		}
		fmt.Fprintf(&b, "\n%s %s\n   %s", icon, names[m.UserID], m.UserID)
	}
	t.say(b.String())
	return nil
}
