package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/logger"
	"github.com/worldorder/worldorder/pkg/sheetimport"
	"github.com/worldorder/worldorder/pkg/tracing"
)

// maxCodeAttempts bounds share code generation when codes collide
const maxCodeAttempts = 5

// WorldService manages worlds, bindings and current-world pointers
type WorldService struct {
	repo    domain.WorldRepository
	logger  logger.Logger
	newCode func() (string, error)
}

func NewWorldService(repo domain.WorldRepository, logger logger.Logger) *WorldService {
	return &WorldService{
		repo:    repo,
		logger:  logger,
		newCode: domain.GenerateWorldCode,
	}
}

func (s *WorldService) GetWorld(ctx context.Context, worldID int64) (*domain.World, error) {
	return s.repo.GetByID(ctx, worldID)
}

// FindWorld resolves a share code or numeric id
func (s *WorldService) FindWorld(ctx context.Context, ref domain.WorldRef) (*domain.World, error) {
	if ref.Code != "" {
		return s.repo.GetByCode(ctx, strings.ToUpper(ref.Code))
	}
	return s.repo.GetByID(ctx, ref.ID)
}

func (s *WorldService) ListWorlds(ctx context.Context) ([]*domain.World, error) {
	return s.repo.List(ctx)
}

func (s *WorldService) ListBindings(ctx context.Context, userID string) ([]*domain.Binding, error) {
	return s.repo.ListBindings(ctx, userID)
}

func (s *WorldService) GetCurrentWorld(ctx context.Context, userID string) (*domain.CurrentWorld, error) {
	return s.repo.GetCurrentWorld(ctx, userID)
}

func (s *WorldService) SetCurrentWorld(ctx context.Context, userID string, worldID int64) error {
	return s.repo.SetCurrentWorld(ctx, userID, worldID)
}

// findBinding returns the user's binding to worldID, or nil
func (s *WorldService) findBinding(ctx context.Context, userID string, worldID int64) (*domain.Binding, error) {
	bindings, err := s.repo.ListBindings(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		if b.WorldID == worldID {
			return b, nil
		}
	}
	return nil, nil
}

// CreateWorld creates a world in catalog setup owned by userID
func (s *WorldService) CreateWorld(ctx context.Context, userID string) (*domain.World, error) {
	return tracing.TraceMethodWithResult(ctx, "WorldService", "CreateWorld", func(ctx context.Context) (*domain.World, error) {
		bindings, err := s.repo.ListBindings(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list bindings: %w", err)
		}
		for _, b := range bindings {
			if b.IsOwner() {
				return nil, domain.ErrAlreadyOwner
			}
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := s.newCode()
			if err != nil {
				return nil, err
			}
			world := &domain.World{
				Code:        code,
				Status:      domain.WorldStatusVendorMapSetup,
				OwnerUserID: userID,
			}
			err = s.repo.Create(ctx, world)
			if errors.Is(err, domain.ErrCodeTaken) {
				s.logger.WithField("code", code).Debug("World code collision, retrying")
				continue
			}
			if err != nil {
				return nil, err
			}
			s.logger.WithFields(map[string]interface{}{
				"user_id":  userID,
				"world_id": world.ID,
			}).Info("World created")
			return world, nil
		}
		return nil, domain.ErrCodeExhausted
	})
}

// JoinWorld binds userID to the referenced world as an employee and focuses it
func (s *WorldService) JoinWorld(ctx context.Context, userID string, ref domain.WorldRef) (*domain.World, error) {
	return tracing.TraceMethodWithResult(ctx, "WorldService", "JoinWorld", func(ctx context.Context) (*domain.World, error) {
		world, err := s.FindWorld(ctx, ref)
		if err != nil {
			return nil, err
		}

		existing, err := s.findBinding(ctx, userID, world.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list bindings: %w", err)
		}
		if existing != nil {
			return world, domain.ErrAlreadyBound
		}

		if err := s.repo.AddBinding(ctx, userID, world.ID, domain.RoleEmployee); err != nil {
			return nil, err
		}
		if err := s.repo.SetCurrentWorld(ctx, userID, world.ID); err != nil {
			return nil, err
		}
		return world, nil
	})
}

// SwitchWorld focuses a world the user is bound to
func (s *WorldService) SwitchWorld(ctx context.Context, userID string, ref domain.WorldRef) (*domain.World, error) {
	world, err := s.FindWorld(ctx, ref)
	if err != nil {
		return nil, err
	}
	binding, err := s.findBinding(ctx, userID, world.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	if binding == nil {
		return world, domain.ErrNotBound
	}
	if err := s.repo.SetCurrentWorld(ctx, userID, world.ID); err != nil {
		return nil, err
	}
	return world, nil
}

// LeaveWorld unbinds an employee. Owners must delete the world instead.
func (s *WorldService) LeaveWorld(ctx context.Context, userID string, ref domain.WorldRef) (*domain.World, error) {
	world, err := s.FindWorld(ctx, ref)
	if err != nil {
		return nil, err
	}
	binding, err := s.findBinding(ctx, userID, world.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	if binding == nil {
		return world, domain.ErrNotBound
	}
	if binding.IsOwner() {
		return world, domain.NewPermissionError("leave owned world")
	}
	if err := s.repo.RemoveBinding(ctx, userID, world.ID); err != nil {
		return nil, err
	}
	return world, nil
}

// DeleteWorld permanently removes a world owned by userID
func (s *WorldService) DeleteWorld(ctx context.Context, userID string, ref domain.WorldRef) (*domain.World, error) {
	return tracing.TraceMethodWithResult(ctx, "WorldService", "DeleteWorld", func(ctx context.Context) (*domain.World, error) {
		world, err := s.FindWorld(ctx, ref)
		if err != nil {
			return nil, err
		}
		if world.OwnerUserID != userID {
			return world, domain.NewPermissionError("delete world")
		}
		if err := s.repo.Delete(ctx, world.ID); err != nil {
			return nil, err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id":  userID,
			"world_id": world.ID,
		}).Info("World deleted")
		return world, nil
	})
}

// DiscardUnfinished deletes a world that never became active when its owner restarts,
// and only unbinds anyone else
func (s *WorldService) DiscardUnfinished(ctx context.Context, userID string, worldID int64) error {
	world, err := s.repo.GetByID(ctx, worldID)
	if err != nil {
		return err
	}
	if world.OwnerUserID != userID {
		return s.repo.RemoveBinding(ctx, userID, worldID)
	}
	if world.IsActive() {
		return domain.NewValidationError("active worlds must be deleted explicitly")
	}
	return s.repo.Discard(ctx, worldID)
}

// SaveSetupCatalog stores the first catalog and advances the world to naming
func (s *WorldService) SaveSetupCatalog(ctx context.Context, worldID int64, catalog *domain.VendorMap) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	world, err := s.repo.GetByID(ctx, worldID)
	if err != nil {
		return err
	}
	if !world.Status.CanTransitionTo(domain.WorldStatusNaming) {
		return domain.NewValidationError(fmt.Sprintf("world %d is not in catalog setup", worldID))
	}
	return s.repo.SaveCatalogAndAdvance(ctx, worldID, catalog)
}

func (s *WorldService) MarkSetupFailed(ctx context.Context, worldID int64) error {
	return s.repo.UpdateStatus(ctx, worldID, domain.WorldStatusFailed)
}

// NameWorld sets the world name and activates it
func (s *WorldService) NameWorld(ctx context.Context, worldID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("world name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameRunes {
		return domain.NewValidationError(fmt.Sprintf("world name must be at most %d characters", domain.MaxNameRunes))
	}
	return s.repo.Activate(ctx, worldID, name)
}

// UpdateCatalog replaces the catalog of an active world. A catalog holding only the
// empty placeholder vendor is accepted here.
func (s *WorldService) UpdateCatalog(ctx context.Context, worldID int64, catalog *domain.VendorMap) error {
	if catalog == nil || len(catalog.Vendors) == 0 {
		return domain.ErrEmptyCatalog
	}
	return s.repo.UpdateCatalog(ctx, worldID, catalog)
}

func (s *WorldService) UpdateOrderFormat(ctx context.Context, worldID int64, format *domain.OrderFormat) error {
	return s.repo.UpdateOrderFormat(ctx, worldID, format)
}

func (s *WorldService) UpdateDisplayFormat(ctx context.Context, worldID int64, format *domain.DisplayFormat) error {
	return s.repo.UpdateDisplayFormat(ctx, worldID, format)
}

func (s *WorldService) UpdateMenuImage(ctx context.Context, worldID int64, url *string) error {
	return s.repo.UpdateMenuImage(ctx, worldID, url)
}

// ImportCatalog replaces a world's catalog from a spreadsheet. A nil mapping is detected
// from the sheet.
func (s *WorldService) ImportCatalog(ctx context.Context, worldID int64, sheet *sheetimport.Sheet, mapping *sheetimport.Mapping) (*domain.VendorMap, error) {
	return tracing.TraceMethodWithResult(ctx, "WorldService", "ImportCatalog", func(ctx context.Context) (*domain.VendorMap, error) {
		if mapping == nil {
			mapping = sheetimport.DetectMapping(sheet)
			if mapping == nil {
				return nil, &sheetimport.ImportError{Kind: sheetimport.ErrNoMapping, Detail: "could not detect item and quantity columns"}
			}
		}

		parsed, err := sheetimport.ParseToVendorMap(sheet, mapping)
		if err != nil {
			return nil, err
		}
		options, err := sheetimport.ParseItemOptions(sheet, mapping)
		if err != nil {
			return nil, err
		}

		catalog := domain.VendorMapFromImport(parsed)
		if err := catalog.Validate(); err != nil {
			return nil, err
		}
		if _, err := s.repo.GetByID(ctx, worldID); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateImport(ctx, worldID, catalog, mapping, options); err != nil {
			return nil, err
		}

		s.logger.WithFields(map[string]interface{}{
			"world_id": worldID,
			"items":    catalog.ItemCount(),
		}).Info("Catalog imported")
		return catalog, nil
	})
}

func (s *WorldService) ListMembers(ctx context.Context, worldID int64) ([]*domain.Binding, error) {
	return s.repo.ListMembers(ctx, worldID)
}

// RemoveMember unbinds an employee on the owner's behalf
func (s *WorldService) RemoveMember(ctx context.Context, ownerUserID string, worldID int64, memberUserID string) error {
	world, err := s.repo.GetByID(ctx, worldID)
	if err != nil {
		return err
	}
	if world.OwnerUserID != ownerUserID {
		return domain.NewPermissionError("remove member")
	}
	if memberUserID == ownerUserID {
		return domain.NewValidationError("the owner cannot be removed")
	}

	members, err := s.repo.ListMembers(ctx, worldID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.UserID == memberUserID {
			return s.repo.RemoveBinding(ctx, memberUserID, worldID)
		}
	}
	return domain.ErrMemberNotFound
}
