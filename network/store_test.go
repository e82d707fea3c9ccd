package network

import (
	"testing"

	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/yohamta/donburi"
)

func TestEntityStoreUpsertIsIdempotent(t *testing.T) {
	s := NewEntityStore()
	first := Entity{ID: 3, Kind: netconfig.KindNPC, X: 10, Y: 20}
	if !s.UpsertIfAbsent(first) {
		t.Fatalf("expected first insert to succeed")
	}
	if s.UpsertIfAbsent(Entity{ID: 3, Kind: netconfig.KindPlayer, X: 99, Y: 99}) {
		t.Fatalf("expected duplicate insert to be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", s.Len())
	}
	got, ok := s.Get(3)
	if !ok || got != first {
		t.Fatalf("expected %+v, got %+v (ok=%v)", first, got, ok)
	}
}

func TestEntityStoreRemoveIsIdempotent(t *testing.T) {
	s := NewEntityStore()
	s.UpsertIfAbsent(Entity{ID: 1, Kind: netconfig.KindPlayer})
	s.UpsertIfAbsent(Entity{ID: 2, Kind: netconfig.KindNPC})

	if !s.Remove(1) {
		t.Fatalf("expected remove to report a deletion")
	}
	if s.Remove(1) {
		t.Fatalf("expected second remove to be a no-op")
	}
	if s.Remove(42) {
		t.Fatalf("expected removing an unknown id to be a no-op")
	}
	if _, ok := s.Get(1); ok {
		t.Fatalf("entity 1 should be gone")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatalf("entity 2 should remain")
	}
}

func TestEntityStoreSetPositionIgnoresUnknownIDs(t *testing.T) {
	s := NewEntityStore()
	if s.SetPosition(5, 1, 1) {
		t.Fatalf("expected stale move to report false")
	}
	if s.Len() != 0 {
		t.Fatalf("stale move must not create entities")
	}

	s.UpsertIfAbsent(Entity{ID: 5, Kind: netconfig.KindNPC, X: 1, Y: 1})
	if !s.SetPosition(5, 30, 40) {
		t.Fatalf("expected move to succeed")
	}
	if got, _ := s.Get(5); got.X != 30 || got.Y != 40 {
		t.Fatalf("expected (30,40), got (%v,%v)", got.X, got.Y)
	}
}

func TestEntityStoreBindLocalOnce(t *testing.T) {
	s := NewEntityStore()
	if _, ok := s.LocalID(); ok {
		t.Fatalf("expected no local entity on a fresh store")
	}
	if !s.BindLocal(0) {
		t.Fatalf("expected first bind to succeed")
	}
	if s.BindLocal(8) {
		t.Fatalf("expected rebind to fail")
	}
	if id, ok := s.LocalID(); !ok || id != 0 {
		t.Fatalf("expected local id 0, got %d (ok=%v)", id, ok)
	}
	if _, ok := s.Local(); ok {
		t.Fatalf("local entity is bound but not stored yet")
	}

	s.UpsertIfAbsent(Entity{ID: 0, Kind: netconfig.KindPlayer, X: 5, Y: 5})
	s.UpsertIfAbsent(Entity{ID: 8, Kind: netconfig.KindNPC})
	snaps := s.Snapshots()
	if len(snaps) != 2 || !snaps[0].IsLocal || snaps[1].IsLocal {
		t.Fatalf("unexpected snapshots: %+v", snaps)
	}
}

func TestEntityStoreSnapshotsOrderedByID(t *testing.T) {
	s := NewEntityStore()
	for _, id := range []EntityID{9, 2, 5} {
		s.UpsertIfAbsent(Entity{ID: id, Kind: netconfig.KindNPC})
	}
	snaps := s.Snapshots()
	want := []EntityID{2, 5, 9}
	for i, snap := range snaps {
		if snap.ID != want[i] {
			t.Fatalf("expected id %d at %d, got %d", want[i], i, snap.ID)
		}
	}
}

func TestEntityStoreEvents(t *testing.T) {
	s := NewEntityStore()
	var got []EntityChange
	EntityChanged.Subscribe(s.World(), func(_ donburi.World, c EntityChange) {
		got = append(got, c)
	})

	s.UpsertIfAbsent(Entity{ID: 1, Kind: netconfig.KindNPC, X: 1, Y: 1})
	s.UpsertIfAbsent(Entity{ID: 1, Kind: netconfig.KindNPC, X: 1, Y: 1})
	s.SetPosition(1, 1, 1)
	s.SetPosition(1, 2, 2)
	s.Remove(1)
	s.Remove(1)

	if len(got) != 0 {
		t.Fatalf("events must wait for Flush, got %d", len(got))
	}
	s.Flush()

	want := []ChangeType{ChangeAdded, ChangeMoved, ChangeRemoved}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), got)
	}
	for i, c := range got {
		if c.Type != want[i] {
			t.Fatalf("event %d: expected %v, got %v", i, want[i], c.Type)
		}
	}
	if last := got[2].Entity; last.X != 2 || last.Y != 2 {
		t.Fatalf("removal should carry the last known position, got %+v", last)
	}
}

func TestEntityStoreClear(t *testing.T) {
	s := NewEntityStore()
	s.BindLocal(1)
	s.UpsertIfAbsent(Entity{ID: 1, Kind: netconfig.KindPlayer})
	s.UpsertIfAbsent(Entity{ID: 2, Kind: netconfig.KindNPC})

	removed := 0
	EntityChanged.Subscribe(s.World(), func(_ donburi.World, c EntityChange) {
		if c.Type == ChangeRemoved {
			removed++
		}
	})

	s.Clear()
	s.Flush()

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	if _, ok := s.LocalID(); ok {
		t.Fatalf("expected local binding to be cleared")
	}
	if removed != 2 {
		t.Fatalf("expected 2 removal events, got %d", removed)
	}
	if !s.BindLocal(3) {
		t.Fatalf("expected bind to succeed after clear")
	}
}
