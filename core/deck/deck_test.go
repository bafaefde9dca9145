package deck

import (
	"testing"

	"sounddeck/model"
)

func clip(id, name string) *model.Clip {
	return &model.Clip{ID: id, DisplayName: name, TotalDuration: 10, Volume: 1}
}

func playlist(id, name string, clipIDs ...string) *model.Playlist {
	p := &model.Playlist{ID: id, Name: name, Mode: model.ContinuationAuto}
	for i, cid := range clipIDs {
		p.Items = append(p.Items, &model.PlaylistItem{
			ItemID:     id + "-item-" + cid,
			PlaylistID: id,
			ClipID:     cid,
			Position:   i,
		})
	}
	return p
}

func TestClipStoreOrdering(t *testing.T) {
	s := NewClipStore()
	s.Add(clip("c2", "Bravo"))
	s.Add(clip("c1", "Alpha"))
	s.Add(clip("c3", "Alpha")) // same name, higher id

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("Len = %d, want 3", len(all))
	}
	wantIDs := []string{"c1", "c3", "c2"}
	for i, want := range wantIDs {
		if all[i].ID != want {
			t.Errorf("All()[%d].ID = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestClipStoreGetByName(t *testing.T) {
	s := NewClipStore()
	s.Add(clip("c1", "Airhorn"))
	if got := s.GetByName("Airhorn"); got == nil || got.ID != "c1" {
		t.Errorf("GetByName(Airhorn) = %v", got)
	}
	if got := s.GetByName("Missing"); got != nil {
		t.Errorf("GetByName(Missing) = %v, want nil", got)
	}
}

func TestClipStoreRemove(t *testing.T) {
	s := NewClipStore()
	s.Add(clip("c1", "Airhorn"))
	if !s.Remove("c1") {
		t.Error("Remove of existing clip returned false")
	}
	if s.Remove("c1") {
		t.Error("Remove of missing clip returned true")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after remove", s.Len())
	}
}

func TestRemoveClipRefs(t *testing.T) {
	s := NewPlaylistStore()
	s.Add(playlist("p1", "One", "a", "b", "a"))
	s.Add(playlist("p2", "Two", "b"))
	s.Add(playlist("p3", "Three", "a"))

	changed := s.RemoveClipRefs("a")
	if len(changed) != 2 || changed[0] != "p1" || changed[1] != "p3" {
		t.Fatalf("RemoveClipRefs changed %v, want [p1 p3]", changed)
	}
	if s.Get("p1").Len() != 1 {
		t.Errorf("p1 has %d items, want 1", s.Get("p1").Len())
	}
	if s.Get("p1").Items[0].Position != 0 {
		t.Error("p1 items not reindexed")
	}
	if s.Get("p3").Len() != 0 {
		t.Errorf("p3 has %d items, want 0", s.Get("p3").Len())
	}
	if s.Get("p2").Len() != 1 {
		t.Errorf("p2 has %d items, want 1", s.Get("p2").Len())
	}
}

func TestHotkeyGridDense(t *testing.T) {
	g := NewHotkeyGrid(2, 4)
	if g.Banks() != 2 || g.Slots() != 4 {
		t.Fatalf("dimensions %dx%d, want 2x4", g.Banks(), g.Slots())
	}
	// Every slot exists from the start.
	for b := 0; b < 2; b++ {
		for p := 0; p < 4; p++ {
			k, ok := g.At(b, p)
			if !ok {
				t.Fatalf("At(%d,%d) missing", b, p)
			}
			if k.Assigned() {
				t.Errorf("slot %d/%d assigned on a fresh grid", b, p)
			}
		}
	}
	if len(g.Assigned()) != 0 {
		t.Errorf("Assigned() = %d entries on fresh grid", len(g.Assigned()))
	}
}

func TestHotkeyGridAssignOverwrites(t *testing.T) {
	g := NewHotkeyGrid(1, 2)
	if !g.Assign(0, 0, model.KindClip, "c1") {
		t.Fatal("Assign failed")
	}
	// Assigning into an occupied slot overwrites without any confirmation.
	if !g.Assign(0, 0, model.KindPlaylist, "p1") {
		t.Fatal("overwrite Assign failed")
	}
	k, _ := g.At(0, 0)
	if k.Kind != model.KindPlaylist || k.TargetID != "p1" {
		t.Errorf("slot = %+v, want playlist p1", k)
	}
	if len(g.Assigned()) != 1 {
		t.Errorf("Assigned() = %d, want 1", len(g.Assigned()))
	}
}

func TestHotkeyGridOutOfRange(t *testing.T) {
	g := NewHotkeyGrid(1, 2)
	if g.Assign(1, 0, model.KindClip, "c1") {
		t.Error("Assign out of range returned true")
	}
	if g.Assign(0, 2, model.KindClip, "c1") {
		t.Error("Assign out of range returned true")
	}
	if g.Clear(-1, 0) {
		t.Error("Clear out of range returned true")
	}
	if _, ok := g.At(5, 5); ok {
		t.Error("At out of range returned true")
	}
	if g.Bank(3) != nil {
		t.Error("Bank out of range should be nil")
	}
}

func TestHotkeyGridClearTarget(t *testing.T) {
	g := NewHotkeyGrid(2, 2)
	g.Assign(0, 0, model.KindClip, "c1")
	g.Assign(0, 1, model.KindClip, "c2")
	g.Assign(1, 0, model.KindClip, "c1")
	g.Assign(1, 1, model.KindPlaylist, "c1") // same id, different kind

	if got := g.ClearTarget(model.KindClip, "c1"); got != 2 {
		t.Errorf("ClearTarget cleared %d, want 2", got)
	}
	if k, _ := g.At(1, 1); !k.Assigned() {
		t.Error("playlist assignment with same id must survive")
	}
	if k, _ := g.At(0, 1); !k.Assigned() {
		t.Error("unrelated assignment must survive")
	}
}
