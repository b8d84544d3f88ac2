package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/sheetimport"
)

// memWorlds is an in-memory WorldRepository with the same error contract as the
// Postgres one
type memWorlds struct {
	mu       sync.Mutex
	nextID   int64
	worlds   map[int64]*domain.World
	bindings []*domain.Binding
	current  map[string]int64
	creates  int
}

func newMemWorlds() *memWorlds {
	return &memWorlds{worlds: map[int64]*domain.World{}, current: map[string]int64{}}
}

func notFound(id int64) error {
	return &domain.ErrWorldNotFound{Ref: "#" + strconv.FormatInt(id, 10)}
}

func copyWorld(w *domain.World) *domain.World {
	out := *w
	out.Catalog = w.Catalog.Clone()
	return &out
}

// seed stores a world as is and binds its owner
func (m *memWorlds) seed(w *domain.World) *domain.World {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	w.ID = m.nextID
	m.worlds[w.ID] = copyWorld(w)
	m.bindings = append(m.bindings, &domain.Binding{UserID: w.OwnerUserID, WorldID: w.ID, Role: domain.RoleOwner})
	m.current[w.OwnerUserID] = w.ID
	return w
}

func (m *memWorlds) bind(userID string, worldID int64, role domain.Role, focus bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = append(m.bindings, &domain.Binding{UserID: userID, WorldID: worldID, Role: role})
	if focus {
		m.current[userID] = worldID
	}
}

func (m *memWorlds) world(id int64) *domain.World {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.worlds[id]; ok {
		return copyWorld(w)
	}
	return nil
}

func (m *memWorlds) pointer(userID string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.current[userID]
	return id, ok
}

func (m *memWorlds) Create(_ context.Context, world *domain.World) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.worlds {
		if w.Code == world.Code {
			return domain.ErrCodeTaken
		}
	}
	m.nextID++
	m.creates++
	world.ID = m.nextID
	world.CreatedAt = time.Now().UTC()
	world.UpdatedAt = world.CreatedAt
	m.worlds[world.ID] = copyWorld(world)
	m.bindings = append(m.bindings, &domain.Binding{UserID: world.OwnerUserID, WorldID: world.ID, Role: domain.RoleOwner})
	m.current[world.OwnerUserID] = world.ID
	return nil
}

func (m *memWorlds) GetByID(_ context.Context, id int64) (*domain.World, error) {
	if w := m.world(id); w != nil {
		return w, nil
	}
	return nil, notFound(id)
}

func (m *memWorlds) GetByCode(_ context.Context, code string) (*domain.World, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.worlds {
		if w.Code == code {
			return copyWorld(w), nil
		}
	}
	return nil, &domain.ErrWorldNotFound{Ref: code}
}

func (m *memWorlds) List(_ context.Context) ([]*domain.World, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.World, 0, len(m.worlds))
	for _, w := range m.worlds {
		out = append(out, copyWorld(w))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// joined fills the world columns the Postgres query joins in. Caller holds mu.
func (m *memWorlds) joined(b *domain.Binding) *domain.Binding {
	out := *b
	if w, ok := m.worlds[b.WorldID]; ok {
		out.WorldCode = w.Code
		out.WorldName = w.Name
		out.WorldStatus = w.Status
	}
	return &out
}

func (m *memWorlds) ListBindings(_ context.Context, userID string) ([]*domain.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Binding{}
	for _, b := range m.bindings {
		if b.UserID == userID {
			out = append(out, m.joined(b))
		}
	}
	return out, nil
}

func (m *memWorlds) ListMembers(_ context.Context, worldID int64) ([]*domain.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Binding{}
	for _, b := range m.bindings {
		if b.WorldID == worldID {
			out = append(out, m.joined(b))
		}
	}
	return out, nil
}

func (m *memWorlds) AddBinding(_ context.Context, userID string, worldID int64, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.worlds[worldID]; !ok {
		return notFound(worldID)
	}
	for _, b := range m.bindings {
		if b.UserID == userID && b.WorldID == worldID {
			return domain.ErrAlreadyBound
		}
	}
	m.bindings = append(m.bindings, &domain.Binding{UserID: userID, WorldID: worldID, Role: role})
	return nil
}

func (m *memWorlds) RemoveBinding(_ context.Context, userID string, worldID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bindings {
		if b.UserID == userID && b.WorldID == worldID {
			m.bindings = append(m.bindings[:i], m.bindings[i+1:]...)
			if m.current[userID] == worldID {
				delete(m.current, userID)
			}
			return nil
		}
	}
	return domain.ErrNotBound
}

func (m *memWorlds) GetCurrentWorld(_ context.Context, userID string) (*domain.CurrentWorld, error) {
	if id, ok := m.pointer(userID); ok {
		return &domain.CurrentWorld{UserID: userID, WorldID: id}, nil
	}
	return nil, nil
}

func (m *memWorlds) SetCurrentWorld(_ context.Context, userID string, worldID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current[userID] = worldID
	return nil
}

func (m *memWorlds) ClearCurrentWorld(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.current, userID)
	return nil
}

func (m *memWorlds) update(worldID int64, fn func(w *domain.World)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.worlds[worldID]
	if !ok {
		return notFound(worldID)
	}
	fn(w)
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memWorlds) UpdateStatus(_ context.Context, worldID int64, status domain.WorldStatus) error {
	return m.update(worldID, func(w *domain.World) { w.Status = status })
}

func (m *memWorlds) SaveCatalogAndAdvance(_ context.Context, worldID int64, catalog *domain.VendorMap) error {
	return m.update(worldID, func(w *domain.World) {
		w.Catalog = catalog.Clone()
		w.Status = domain.WorldStatusNaming
	})
}

func (m *memWorlds) UpdateCatalog(_ context.Context, worldID int64, catalog *domain.VendorMap) error {
	return m.update(worldID, func(w *domain.World) { w.Catalog = catalog.Clone() })
}

func (m *memWorlds) Activate(_ context.Context, worldID int64, name string) error {
	return m.update(worldID, func(w *domain.World) {
		w.Name = &name
		w.Status = domain.WorldStatusActive
	})
}

func (m *memWorlds) UpdateOrderFormat(_ context.Context, worldID int64, format *domain.OrderFormat) error {
	return m.update(worldID, func(w *domain.World) { w.OrderFormat = format })
}

func (m *memWorlds) UpdateDisplayFormat(_ context.Context, worldID int64, format *domain.DisplayFormat) error {
	return m.update(worldID, func(w *domain.World) { w.DisplayFormat = format })
}

func (m *memWorlds) UpdateMenuImage(_ context.Context, worldID int64, url *string) error {
	return m.update(worldID, func(w *domain.World) { w.MenuImageURL = url })
}

func (m *memWorlds) UpdateImport(_ context.Context, worldID int64, catalog *domain.VendorMap, mapping *sheetimport.Mapping, options sheetimport.ItemOptions) error {
	return m.update(worldID, func(w *domain.World) {
		w.Catalog = catalog.Clone()
		w.ExcelMapping = mapping
		w.ItemAttributeOptions = options
	})
}

func (m *memWorlds) remove(worldID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.worlds[worldID]; !ok {
		return notFound(worldID)
	}
	delete(m.worlds, worldID)
	kept := m.bindings[:0]
	for _, b := range m.bindings {
		if b.WorldID != worldID {
			kept = append(kept, b)
		}
	}
	m.bindings = kept
	for user, id := range m.current {
		if id == worldID {
			delete(m.current, user)
		}
	}
	return nil
}

func (m *memWorlds) Delete(_ context.Context, worldID int64) error { return m.remove(worldID) }

func (m *memWorlds) Discard(_ context.Context, worldID int64) error { return m.remove(worldID) }

// memOrders is an in-memory OrderRepository
type memOrders struct {
	mu      sync.Mutex
	nextID  int64
	live    []*domain.OrderItem
	history []*domain.HistoryEntry
}

func (m *memOrders) addLive(orderID string, worldID *int64, item string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.live = append(m.live, &domain.OrderItem{ID: m.nextID, OrderID: orderID, WorldID: worldID, ItemName: item, Quantity: qty})
}

func (m *memOrders) liveItem(name string) *domain.OrderItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.live {
		if it.ItemName == name {
			copied := *it
			return &copied
		}
	}
	return nil
}

func (m *memOrders) entries() []*domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.HistoryEntry(nil), m.history...)
}

func (m *memOrders) CreateOrder(_ context.Context, order *domain.Order, entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range order.Items {
		m.nextID++
		m.live = append(m.live, &domain.OrderItem{
			ID: m.nextID, OrderID: order.ID, Branch: order.Branch, WorldID: order.WorldID,
			ItemName: line.ItemName, Quantity: line.Quantity, CreatedAt: order.CreatedAt,
		})
	}
	m.history = append(m.history, entry)
	return nil
}

func (m *memOrders) FindLiveItems(_ context.Context, itemName string, worldIDs []int64) ([]*domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inScope := func(id *int64) bool {
		if id == nil {
			return true
		}
		for _, w := range worldIDs {
			if w == *id {
				return true
			}
		}
		return false
	}
	out := []*domain.OrderItem{}
	for _, it := range m.live {
		if it.ItemName == itemName && inScope(it.WorldID) {
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memOrders) ApplyModifications(_ context.Context, mods []domain.ItemModification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range mods {
		for i, it := range m.live {
			if it.ID != mod.Item.ID {
				continue
			}
			if mod.NewQuantity == 0 {
				m.live = append(m.live[:i], m.live[i+1:]...)
			} else {
				it.Quantity = mod.NewQuantity
			}
			break
		}
		m.history = append(m.history, mod.Entry)
	}
	return nil
}

func (m *memOrders) ListCreateHistory(_ context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.HistoryEntry{}
	for _, e := range m.history {
		if e.Action != domain.HistoryActionCreateOrder {
			continue
		}
		if filter.WorldID != nil && (e.WorldID == nil || *e.WorldID != *filter.WorldID) {
			continue
		}
		if filter.Branch != nil && e.Branch != *filter.Branch {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memOrders) ClearLive(_ context.Context, worldID *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.live[:0]
	var n int64
	for _, it := range m.live {
		if worldID == nil || (it.WorldID != nil && *it.WorldID == *worldID) {
			n++
			continue
		}
		kept = append(kept, it)
	}
	m.live = kept
	return n, nil
}
