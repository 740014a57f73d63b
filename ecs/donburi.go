package ecs

import (
	"slices"

	"github.com/google/uuid"
	"github.com/phanxgames/reflow"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// GridEventType is the Donburi event type for reflow grid events.
var GridEventType = events.NewEventType[reflow.GridEvent]()

// TileData mirrors one grid tile.
type TileData struct {
	ID   uuid.UUID
	Slot int
}

// TileComponent holds the TileData of mirrored tiles.
var TileComponent = donburi.NewComponentType[TileData]()

// TileQuery matches every mirrored tile entity.
var TileQuery = donburi.NewQuery(filter.Contains(TileComponent))

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Grid events
// are published to GridEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiStore(world donburi.World) reflow.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event reflow.GridEvent) {
	GridEventType.Publish(s.world, event)
}

// MirrorStore publishes grid events like NewDonburiStore and keeps a tile
// entity per grid tile up to date. It must be attached before the grid
// starts so it sees every tile being added.
type MirrorStore struct {
	world    donburi.World
	ids      []uuid.UUID // grid storage order
	entities map[uuid.UUID]donburi.Entity
}

// NewMirrorStore creates a MirrorStore on world.
func NewMirrorStore(world donburi.World) *MirrorStore {
	return &MirrorStore{
		world:    world,
		entities: make(map[uuid.UUID]donburi.Entity),
	}
}

// Entity returns the entity mirroring the tile with the given ID.
func (s *MirrorStore) Entity(id uuid.UUID) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

func (s *MirrorStore) EmitEvent(event reflow.GridEvent) {
	switch event.Type {
	case reflow.EventTileAdded:
		entity := s.world.Create(TileComponent)
		TileComponent.SetValue(s.world.Entry(entity), TileData{ID: event.TileID, Slot: event.To})
		s.ids = append(s.ids, event.TileID)
		s.entities[event.TileID] = entity
	case reflow.EventTileRemoved:
		if entity, ok := s.entities[event.TileID]; ok {
			s.world.Remove(entity)
			delete(s.entities, event.TileID)
		}
		if i := slices.Index(s.ids, event.TileID); i >= 0 {
			s.ids = slices.Delete(s.ids, i, i+1)
		}
	}
	s.sync(event.Ordering)
	GridEventType.Publish(s.world, event)
}

// sync writes every tile's slot from an ordering snapshot.
func (s *MirrorStore) sync(ordering []int) {
	for slot, idx := range ordering {
		if idx < 0 || idx >= len(s.ids) {
			continue
		}
		entity, ok := s.entities[s.ids[idx]]
		if !ok || !s.world.Valid(entity) {
			continue
		}
		TileComponent.Get(s.world.Entry(entity)).Slot = slot
	}
}
