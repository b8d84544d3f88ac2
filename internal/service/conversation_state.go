package service

import (
	"context"
	"fmt"

	"github.com/worldorder/worldorder/internal/domain"
)

// Stage selects which routes a message is matched against
type Stage string

const (
	StageNoBinding        Stage = "no_binding"
	StageCatalogSetup     Stage = "catalog_setup"
	StageNaming           Stage = "naming"
	StageActive           Stage = "active"
	StageInactiveNonOwner Stage = "inactive_non_owner"
)

// ConversationState is what the store says about a user at the start of a turn
type ConversationState struct {
	Bindings []*domain.Binding
	// Current is the binding the current-world pointer refers to
	Current *domain.Binding
	World   *domain.World

	HasBinding     bool
	IsWorldActive  bool
	IsOwner        bool
	InCatalogSetup bool
	InNaming       bool

	// Healed is set when the pointer was missing or stale and was repaired this turn
	Healed bool
}

// Stage derives the dispatch stage. The order of the checks matters: an owner in
// setup never reaches the active routes.
func (s *ConversationState) Stage() Stage {
	switch {
	case s.Current == nil || s.World == nil:
		return StageNoBinding
	case s.InCatalogSetup:
		return StageCatalogSetup
	case s.InNaming:
		return StageNaming
	case s.IsWorldActive:
		return StageActive
	default:
		return StageInactiveNonOwner
	}
}

// BoundWorldIDs is the ledger scope for modifications
func (s *ConversationState) BoundWorldIDs() []int64 {
	ids := make([]int64, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		ids = append(ids, b.WorldID)
	}
	return ids
}

func (s *ConversationState) derive() {
	s.HasBinding = len(s.Bindings) > 0
	if s.Current == nil || s.World == nil {
		return
	}
	status := s.World.Status
	s.IsOwner = s.Current.IsOwner()
	s.IsWorldActive = status == domain.WorldStatusActive
	s.InCatalogSetup = s.IsOwner && (status == domain.WorldStatusVendorMapSetup || status == domain.WorldStatusFailed)
	s.InNaming = s.IsOwner && status == domain.WorldStatusNaming
}

func bindingFor(bindings []*domain.Binding, worldID int64) *domain.Binding {
	for _, b := range bindings {
		if b.WorldID == worldID {
			return b
		}
	}
	return nil
}

// adoptable picks the binding a missing pointer is healed to: the first active world,
// then the first owned world, then the first binding
func adoptable(bindings []*domain.Binding) *domain.Binding {
	for _, b := range bindings {
		if b.WorldStatus == domain.WorldStatusActive {
			return b
		}
	}
	for _, b := range bindings {
		if b.IsOwner() {
			return b
		}
	}
	return bindings[0]
}

// GetState reads bindings and the current-world pointer. A missing or stale pointer is
// repaired with one upsert; the state is then derived once, without re-reading.
func (s *ConversationService) GetState(ctx context.Context, userID string) (*ConversationState, error) {
	bindings, err := s.worlds.ListBindings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	pointer, err := s.worlds.GetCurrentWorld(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current world: %w", err)
	}

	state := &ConversationState{Bindings: bindings}
	if pointer != nil {
		state.Current = bindingFor(bindings, pointer.WorldID)
	}
	if state.Current == nil && len(bindings) > 0 {
		adopt := adoptable(bindings)
		if err := s.worlds.SetCurrentWorld(ctx, userID, adopt.WorldID); err != nil {
			return nil, fmt.Errorf("failed to heal current world: %w", err)
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id":  userID,
			"world_id": adopt.WorldID,
		}).Info("Current world pointer healed")
		state.Current = adopt
		state.Healed = true
	}

	if state.Current != nil {
		world, err := s.worlds.GetWorld(ctx, state.Current.WorldID)
		if err != nil {
			return nil, fmt.Errorf("failed to load current world: %w", err)
		}
		state.World = world
	}
	state.derive()
	return state, nil
}
