package network

import (
	"sort"

	"github.com/chenmins/mmo-demo/shared/netcomponents"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// EntityID is the server-assigned identifier of a synced entity.
type EntityID = esync.NetworkId

// Entity is a copy of one stored entity.
type Entity struct {
	ID   EntityID
	Kind netconfig.EntityKind
	X, Y float64
}

// EntitySnapshot is the read-only projection handed to renderers.
type EntitySnapshot struct {
	ID      EntityID
	Kind    netconfig.EntityKind
	X, Y    float64
	IsLocal bool
}

// ChangeType describes a structural change in the store.
type ChangeType int

const (
	ChangeAdded ChangeType = iota
	ChangeRemoved
	ChangeMoved
)

func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeMoved:
		return "moved"
	}
	return "unknown"
}

// EntityChange is published for every insert, removal and position change.
// For ChangeRemoved the snapshot holds the last known state.
type EntityChange struct {
	Type   ChangeType
	Entity EntitySnapshot
}

// EntityChanged is the event bus published on the store world. Hosts subscribe
// through Session.Subscribe.
var EntityChanged = events.NewEventType[EntityChange]()

var syncedEntityQuery = donburi.NewQuery(filter.Contains(
	esync.NetworkIdComponent,
	netcomponents.NetEntity,
	netcomponents.NetPosition,
))

// EntityStore maps entity ids to entity state. Entries live in a donburi
// world keyed by esync.NetworkId. It is not safe for concurrent use; all
// mutation happens on the host loop.
type EntityStore struct {
	world    donburi.World
	localID  EntityID
	hasLocal bool
}

// NewEntityStore returns an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{world: donburi.NewWorld()}
}

// World exposes the backing world for event subscription.
func (s *EntityStore) World() donburi.World {
	return s.world
}

// UpsertIfAbsent inserts e unless an entity with the same id already exists.
// It reports whether an insertion happened.
func (s *EntityStore) UpsertIfAbsent(e Entity) bool {
	if _, ok := s.lookup(e.ID); ok {
		return false
	}

	entity := s.world.Create(esync.NetworkIdComponent, netcomponents.NetEntity, netcomponents.NetPosition)
	entry := s.world.Entry(entity)
	esync.NetworkIdComponent.SetValue(entry, e.ID)
	netcomponents.NetEntity.SetValue(entry, netcomponents.NetEntityData{Kind: e.Kind})
	netcomponents.NetPosition.SetValue(entry, netcomponents.NetPositionData{X: e.X, Y: e.Y})

	s.publish(ChangeAdded, entry)
	return true
}

// Remove deletes the entity with the given id. Removing an absent id is a no-op.
func (s *EntityStore) Remove(id EntityID) bool {
	entry, ok := s.lookup(id)
	if !ok {
		return false
	}
	s.publish(ChangeRemoved, entry)
	s.world.Remove(entry.Entity())
	return true
}

// Get returns a copy of the entity with the given id.
func (s *EntityStore) Get(id EntityID) (Entity, bool) {
	entry, ok := s.lookup(id)
	if !ok {
		return Entity{}, false
	}
	return entityOf(id, entry), true
}

// SetPosition moves an existing entity. Unknown ids are ignored: a move may
// legitimately arrive after the entity left the area of interest.
func (s *EntityStore) SetPosition(id EntityID, x, y float64) bool {
	entry, ok := s.lookup(id)
	if !ok {
		return false
	}
	pos := netcomponents.NetPosition.Get(entry)
	if pos.X == x && pos.Y == y {
		return true
	}
	pos.X, pos.Y = x, y
	s.publish(ChangeMoved, entry)
	return true
}

// BindLocal marks id as the locally controlled entity. Only the first call
// succeeds; the binding is never reassigned.
func (s *EntityStore) BindLocal(id EntityID) bool {
	if s.hasLocal {
		return false
	}
	s.localID = id
	s.hasLocal = true
	return true
}

// LocalID returns the locally controlled entity id, if bound.
func (s *EntityStore) LocalID() (EntityID, bool) {
	return s.localID, s.hasLocal
}

// Local returns the locally controlled entity if it is bound and present.
func (s *EntityStore) Local() (Entity, bool) {
	if !s.hasLocal {
		return Entity{}, false
	}
	return s.Get(s.localID)
}

// Len returns the number of stored entities.
func (s *EntityStore) Len() int {
	return syncedEntityQuery.Count(s.world)
}

// Snapshot returns the renderer projection of one entity.
func (s *EntityStore) Snapshot(id EntityID) (EntitySnapshot, bool) {
	entry, ok := s.lookup(id)
	if !ok {
		return EntitySnapshot{}, false
	}
	return s.snapshotOf(id, entry), true
}

// Snapshots returns the renderer projection of every entity, ordered by id.
func (s *EntityStore) Snapshots() []EntitySnapshot {
	out := make([]EntitySnapshot, 0, s.Len())
	syncedEntityQuery.Each(s.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		out = append(out, s.snapshotOf(*id, entry))
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes every entity and forgets the local binding.
func (s *EntityStore) Clear() {
	type doomedEntity struct {
		entity donburi.Entity
		last   EntitySnapshot
	}
	var doomed []doomedEntity
	syncedEntityQuery.Each(s.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		doomed = append(doomed, doomedEntity{entity: entry.Entity(), last: s.snapshotOf(*id, entry)})
	})
	for _, d := range doomed {
		EntityChanged.Publish(s.world, EntityChange{Type: ChangeRemoved, Entity: d.last})
		s.world.Remove(d.entity)
	}
	s.localID = 0
	s.hasLocal = false
}

// Flush delivers queued change events to subscribers.
func (s *EntityStore) Flush() {
	EntityChanged.ProcessEvents(s.world)
}

func (s *EntityStore) lookup(id EntityID) (*donburi.Entry, bool) {
	entity := esync.FindByNetworkId(s.world, id)
	if !s.world.Valid(entity) {
		return nil, false
	}
	entry := s.world.Entry(entity)
	if !entry.HasComponent(netcomponents.NetPosition) {
		return nil, false
	}
	return entry, true
}

func (s *EntityStore) publish(change ChangeType, entry *donburi.Entry) {
	id := esync.GetNetworkId(entry)
	if id == nil {
		return
	}
	EntityChanged.Publish(s.world, EntityChange{Type: change, Entity: s.snapshotOf(*id, entry)})
}

func (s *EntityStore) snapshotOf(id EntityID, entry *donburi.Entry) EntitySnapshot {
	e := entityOf(id, entry)
	return EntitySnapshot{
		ID:      e.ID,
		Kind:    e.Kind,
		X:       e.X,
		Y:       e.Y,
		IsLocal: s.hasLocal && s.localID == id,
	}
}

func entityOf(id EntityID, entry *donburi.Entry) Entity {
	pos := netcomponents.NetPosition.Get(entry)
	data := netcomponents.NetEntity.Get(entry)
	return Entity{ID: id, Kind: data.Kind, X: pos.X, Y: pos.Y}
}
