package player

import (
	"testing"

	"sounddeck/core/deck"
	"sounddeck/model"
)

// testRig wires a coordinator to a fake output. Engine events are pumped by
// calling drain() instead of running the Run loop, so every test is
// single-threaded and deterministic.
type testRig struct {
	out *fakeOutput
	e   *Engine
	co  *Coordinator
}

func newRig() *testRig {
	out := &fakeOutput{}
	e := NewEngine(out)
	co := NewCoordinator(deck.New(2, 4), e)
	return &testRig{out: out, e: e, co: co}
}

func (r *testRig) addClip(id, name string, total, head, tail float64) *model.Clip {
	c := &model.Clip{
		ID:            id,
		DisplayName:   name,
		SourceHandle:  "clips/" + id + ".wav",
		MimeType:      "audio/wav",
		TotalDuration: total,
		Volume:        1,
		HeadTrim:      head,
		TailTrim:      tail,
	}
	r.co.AddClip(c)
	return c
}

func (r *testRig) newPlaylist(name string, clipIDs ...string) model.Playlist {
	p := r.co.CreatePlaylist(1, name)
	for _, id := range clipIDs {
		if _, ok := r.co.AddItem(p.ID, id); !ok {
			panic("AddItem failed for " + id)
		}
	}
	full, _ := r.co.PlaylistByID(p.ID)
	return full
}

// drain dispatches every queued engine event, exactly like the Run loop
// would, then returns.
func (r *testRig) drain() {
	for {
		select {
		case ev := <-r.e.Events():
			switch ev.Kind {
			case EventProgress:
				r.co.handleProgress(ev)
			case EventCompleted:
				r.co.handleCompletion(ev)
			}
		default:
			return
		}
	}
}

func TestPlayClipStartsAtHeadTrim(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 1.5, 0)

	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	if len(r.out.starts) != 1 {
		t.Fatalf("starts = %d, want 1", len(r.out.starts))
	}
	if got := r.out.starts[0].offset; got != 1.5 {
		t.Errorf("start offset = %v, want head trim 1.5", got)
	}
	snap := r.co.Snapshot()
	if snap.State != model.StateSingle || snap.ActiveClipID != "c1" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Elapsed != 1.5 {
		t.Errorf("elapsed = %v, want 1.5", snap.Elapsed)
	}
}

func TestPlayUnknownTargetIsNoOp(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	// An unknown target must leave the running session untouched.
	r.co.Play(Target{Kind: model.KindClip, ID: "ghost"})
	r.co.Play(Target{Kind: model.KindPlaylist, ID: "ghost"})

	if len(r.out.starts) != 1 {
		t.Errorf("starts = %d, want 1", len(r.out.starts))
	}
	if snap := r.co.Snapshot(); snap.ActiveClipID != "c1" {
		t.Errorf("active clip = %s, want c1", snap.ActiveClipID)
	}
}

func TestPlayEmptyPlaylistIsNoOp(t *testing.T) {
	r := newRig()
	p := r.co.CreatePlaylist(1, "empty")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})

	if len(r.out.starts) != 0 {
		t.Errorf("starts = %d, want 0", len(r.out.starts))
	}
	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
}

func TestSingleClipCompletesToIdle(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	r.out.end()
	r.drain()

	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle after natural end", snap.State)
	}
}

func TestSingleClipLoopRestarts(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 2, 0)
	r.co.SetLoop(true)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	r.out.end()
	r.drain()

	if len(r.out.starts) != 2 {
		t.Fatalf("starts = %d, want 2 (restart)", len(r.out.starts))
	}
	if got := r.out.starts[1].offset; got != 2 {
		t.Errorf("restart offset = %v, want head trim 2", got)
	}
	if snap := r.co.Snapshot(); snap.State != model.StateSingle || snap.ActiveClipID != "c1" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPlaylistAutoAdvance(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	if snap := r.co.Snapshot(); snap.ActiveClipID != "a" || snap.ActivePlaylistIndex != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}

	r.out.end()
	r.drain()
	snap := r.co.Snapshot()
	if snap.ActiveClipID != "b" || snap.ActivePlaylistIndex != 1 {
		t.Fatalf("after first end: %+v", snap)
	}

	r.out.end()
	r.drain()
	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle after last item", snap.State)
	}
}

func TestPlaylistLoopWraps(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")
	r.co.SetLoop(true)

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	r.out.end()
	r.drain()
	r.out.end()
	r.drain()

	snap := r.co.Snapshot()
	if snap.State != model.StatePlaylist || snap.ActivePlaylistIndex != 0 || snap.ActiveClipID != "a" {
		t.Errorf("after wrap: %+v", snap)
	}
}

func TestManualModeStopsAfterItem(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")
	mode := model.ContinuationManual
	r.co.UpdatePlaylist(p.ID, PlaylistUpdate{Mode: &mode})
	r.co.SetLoop(true) // loop must not override manual

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	r.out.end()
	r.drain()

	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle in manual mode", snap.State)
	}
}

func TestTailTrimHaltsAndAdvances(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 3)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	r.out.tick(6.9)
	r.drain()
	if snap := r.co.Snapshot(); snap.ActiveClipID != "a" {
		t.Fatalf("advanced too early: %+v", snap)
	}

	// Crossing total - tail counts as completion, not as a stop.
	r.out.tick(7.0)
	r.drain()
	snap := r.co.Snapshot()
	if snap.ActiveClipID != "b" || snap.ActivePlaylistIndex != 1 {
		t.Errorf("after tail hit: %+v", snap)
	}
}

func TestPauseResume(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})
	r.out.tick(3)
	r.drain()

	r.co.Pause()
	if r.out.pauses != 1 {
		t.Errorf("pauses = %d, want 1", r.out.pauses)
	}
	snap := r.co.Snapshot()
	if !snap.Paused || snap.Elapsed != 3 {
		t.Errorf("paused snapshot = %+v", snap)
	}

	// Pause is idempotent.
	r.co.Pause()
	if r.out.pauses != 1 {
		t.Errorf("pauses = %d after double pause, want 1", r.out.pauses)
	}

	r.co.Resume()
	if len(r.out.starts) != 2 {
		t.Fatalf("starts = %d, want 2", len(r.out.starts))
	}
	if got := r.out.starts[1].offset; got != 3 {
		t.Errorf("resume offset = %v, want 3", got)
	}
	if snap := r.co.Snapshot(); snap.Paused {
		t.Error("still paused after resume")
	}
}

func TestResumeAfterHeadRetrim(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})
	r.out.tick(1)
	r.drain()
	r.co.Pause()

	// Retrimming while paused moves the resume point forward.
	head := 2.5
	r.co.UpdateClip("c1", ClipUpdate{HeadTrim: &head})
	r.co.Resume()

	if got := r.out.starts[len(r.out.starts)-1].offset; got != 2.5 {
		t.Errorf("resume offset = %v, want new head trim 2.5", got)
	}
}

func TestLiveTailRetrim(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})
	r.out.tick(5)
	r.drain()

	// The new boundary applies without a restart.
	tail := 4.0
	r.co.UpdateClip("c1", ClipUpdate{TailTrim: &tail})
	r.out.tick(6.1)
	r.drain()

	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle past retrimmed tail", snap.State)
	}
}

func TestLiveHeadRetrimSeeksForwardOnly(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})
	r.out.tick(3)
	r.drain()

	// Head moved ahead of the playhead: seek forward to it.
	head := 5.0
	r.co.UpdateClip("c1", ClipUpdate{HeadTrim: &head})
	if len(r.out.seeks) != 1 || r.out.seeks[0] != 5 {
		t.Fatalf("seeks = %v, want [5]", r.out.seeks)
	}
	if snap := r.co.Snapshot(); snap.Elapsed != 5 {
		t.Errorf("elapsed = %v, want 5", snap.Elapsed)
	}

	// Head behind the playhead: playback is never pulled backward.
	head = 1.0
	r.co.UpdateClip("c1", ClipUpdate{HeadTrim: &head})
	if len(r.out.seeks) != 1 {
		t.Errorf("seeks = %v, backward seek must not happen", r.out.seeks)
	}
}

func TestNextPreviousBounds(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")
	r.co.SetLoop(true)

	// Outside playlist playback both are no-ops.
	r.co.Next()
	r.co.Previous()
	if len(r.out.starts) != 0 {
		t.Fatalf("starts = %d before any play", len(r.out.starts))
	}

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})

	r.co.Previous() // at index 0
	if snap := r.co.Snapshot(); snap.ActivePlaylistIndex != 0 {
		t.Errorf("Previous at index 0 moved to %d", snap.ActivePlaylistIndex)
	}

	r.co.Next()
	if snap := r.co.Snapshot(); snap.ActivePlaylistIndex != 1 || snap.ActiveClipID != "b" {
		t.Errorf("after Next: %+v", snap)
	}

	// Manual skip at the last index stays put even with loop enabled.
	r.co.Next()
	if snap := r.co.Snapshot(); snap.ActivePlaylistIndex != 1 {
		t.Errorf("Next at last index moved to %d", snap.ActivePlaylistIndex)
	}

	// A skip always starts playback, discarding a paused state.
	r.co.Pause()
	r.co.Previous()
	snap := r.co.Snapshot()
	if snap.Paused || snap.ActivePlaylistIndex != 0 {
		t.Errorf("after Previous from pause: %+v", snap)
	}
}

func TestSeekWhileIdleIsNoOp(t *testing.T) {
	r := newRig()
	r.co.Seek(5)
	if len(r.out.seeks) != 0 {
		t.Errorf("seeks = %v while idle", r.out.seeks)
	}
}

func TestStopKeepsLoopPreference(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.SetLoop(true)
	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	r.co.Stop()
	snap := r.co.Snapshot()
	if snap.State != model.StateIdle || snap.ActiveClipID != "" {
		t.Errorf("snapshot = %+v", snap)
	}
	if !snap.LoopEnabled {
		t.Error("loop preference must survive Stop")
	}
	// The halted output must not produce a completion.
	r.out.end()
	r.drain()
	if len(r.out.starts) != 1 {
		t.Errorf("starts = %d, loop restarted after Stop", len(r.out.starts))
	}
}

func TestDeleteActiveClipCascades(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b")
	r.co.AssignHotkey(0, 0, model.KindClip, "a")
	r.co.AssignHotkey(0, 1, model.KindClip, "b")

	r.co.Play(Target{Kind: model.KindClip, ID: "a"})
	removed, ok := r.co.DeleteClip("a")
	if !ok || removed.ID != "a" {
		t.Fatalf("DeleteClip = %+v, %v", removed, ok)
	}

	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle after deleting active clip", snap.State)
	}
	if k, _ := r.co.HotkeyAt(0, 0); k.Assigned() {
		t.Error("hotkey referencing deleted clip must be cleared")
	}
	if k, _ := r.co.HotkeyAt(0, 1); !k.Assigned() {
		t.Error("unrelated hotkey must survive")
	}
	full, _ := r.co.PlaylistByID(p.ID)
	if full.Len() != 1 || full.Items[0].ClipID != "b" {
		t.Errorf("playlist items = %+v", full.Items)
	}

	if _, ok := r.co.DeleteClip("a"); ok {
		t.Error("second delete must be a no-op")
	}
}

func TestDeleteActivePlaylistStops(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	p := r.newPlaylist("set", "a")
	r.co.AssignHotkey(1, 2, model.KindPlaylist, p.ID)

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	if !r.co.DeletePlaylist(p.ID) {
		t.Fatal("DeletePlaylist returned false")
	}

	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if k, _ := r.co.HotkeyAt(1, 2); k.Assigned() {
		t.Error("hotkey referencing deleted playlist must be cleared")
	}
	// The clip itself survives the playlist.
	if len(r.co.Clips()) != 1 {
		t.Error("clips must survive playlist deletion")
	}
}

func TestReorderActivePlaylistKeepsPositionalIndex(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	r.addClip("c", "Charlie", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b", "c")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})

	// Move the playing item to the end: the session index stays positional.
	full, _ := r.co.PlaylistByID(p.ID)
	if !r.co.MoveItem(p.ID, full.Items[0].ItemID, 2) {
		t.Fatal("MoveItem failed")
	}
	snap := r.co.Snapshot()
	if snap.ActivePlaylistIndex != 0 || snap.ActiveClipID != "a" {
		t.Fatalf("after reorder: %+v", snap)
	}

	// Completion advances to whatever occupies position 1 now ("c").
	r.out.end()
	r.drain()
	snap = r.co.Snapshot()
	if snap.ActivePlaylistIndex != 1 || snap.ActiveClipID != "c" {
		t.Errorf("after completion: %+v", snap)
	}
}

func TestRemoveItemDoesNotRemapActiveIndex(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.addClip("b", "Bravo", 10, 0, 0)
	r.addClip("c", "Charlie", 10, 0, 0)
	p := r.newPlaylist("set", "a", "b", "c")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})
	r.out.end()
	r.drain() // now at index 1, clip b

	// Removing an earlier item shifts the content under the index.
	full, _ := r.co.PlaylistByID(p.ID)
	if !r.co.RemoveItem(p.ID, full.Items[0].ItemID) {
		t.Fatal("RemoveItem failed")
	}
	snap := r.co.Snapshot()
	if snap.ActivePlaylistIndex != 1 {
		t.Errorf("index = %d, must stay positional", snap.ActivePlaylistIndex)
	}

	// The finished clip still matches the session, so completion advances
	// from position 1; the playlist now ends there.
	r.out.end()
	r.drain()
	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "a"})

	// A completion from a superseded playback must not stop the current
	// one, even when it names the same clip.
	stale := r.co.sess.epoch - 1
	r.co.handleCompletion(Event{Kind: EventCompleted, Epoch: stale, ClipID: "a", Position: 10})
	if snap := r.co.Snapshot(); snap.State != model.StateSingle || snap.ActiveClipID != "a" {
		t.Errorf("snapshot = %+v", snap)
	}

	r.co.Stop()
	r.co.handleCompletion(Event{Kind: EventCompleted, Epoch: stale + 1, ClipID: "a", Position: 10})
	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("completion while idle restarted playback: %+v", snap)
	}
}

func TestRetriggerSurvivesQueuedCompletion(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	r.co.Play(Target{Kind: model.KindClip, ID: "a"})

	// The clip ends, and the user retriggers it before the completion
	// event has been consumed. The queued event belongs to the finished
	// playback and must not kill the fresh one.
	r.out.end()
	r.co.Play(Target{Kind: model.KindClip, ID: "a"})
	r.drain()

	snap := r.co.Snapshot()
	if snap.State != model.StateSingle || snap.ActiveClipID != "a" {
		t.Errorf("snapshot = %+v, retrigger stopped by stale completion", snap)
	}
	if len(r.out.starts) != 2 {
		t.Errorf("starts = %d, want 2", len(r.out.starts))
	}
}

func TestDuplicateItemQueuedCompletionDoesNotDoubleAdvance(t *testing.T) {
	r := newRig()
	r.addClip("a", "Alpha", 10, 0, 0)
	p := r.newPlaylist("set", "a", "a")

	r.co.Play(Target{Kind: model.KindPlaylist, ID: p.ID})

	// The first item ends and the user skips before the completion is
	// consumed. Both playbacks carry the same clip id; only the epoch
	// tells them apart. Applying the queued completion on top of the
	// skip would advance past the end and land idle.
	r.out.end()
	r.co.Next()
	r.drain()

	snap := r.co.Snapshot()
	if snap.State != model.StatePlaylist || snap.ActivePlaylistIndex != 1 {
		t.Errorf("snapshot = %+v, want playlist at index 1", snap)
	}
}

func TestPlayHotkey(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.co.AssignHotkey(0, 3, model.KindClip, "c1")

	r.co.PlayHotkey(0, 0) // unassigned slot
	if len(r.out.starts) != 0 {
		t.Errorf("unassigned slot started playback")
	}
	r.co.PlayHotkey(5, 5) // out of range
	if len(r.out.starts) != 0 {
		t.Errorf("out-of-range slot started playback")
	}

	r.co.PlayHotkey(0, 3)
	if snap := r.co.Snapshot(); snap.ActiveClipID != "c1" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAssignHotkeyValidatesTarget(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)

	if _, ok := r.co.AssignHotkey(0, 0, model.KindClip, "ghost"); ok {
		t.Error("assignment to a missing clip must fail")
	}
	if _, ok := r.co.AssignHotkey(0, 0, model.KindPlaylist, "c1"); ok {
		t.Error("kind/target mismatch must fail")
	}
	if _, ok := r.co.AssignHotkey(0, 0, "bogus", "c1"); ok {
		t.Error("unknown kind must fail")
	}
	key, ok := r.co.AssignHotkey(0, 0, model.KindClip, "c1")
	if !ok || key.TargetID != "c1" {
		t.Errorf("AssignHotkey = %+v, %v", key, ok)
	}
}

func TestStartFailureLandsIdle(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	r.out.failErr = errStartFailed

	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})
	if snap := r.co.Snapshot(); snap.State != model.StateIdle {
		t.Errorf("state = %v, want idle after start failure", snap.State)
	}
}

func TestSetCurrentBankClamps(t *testing.T) {
	r := newRig() // 2 banks
	r.co.SetCurrentBank(7)
	if got := r.co.CurrentBank(); got != 1 {
		t.Errorf("bank = %d, want 1", got)
	}
	r.co.SetCurrentBank(-3)
	if got := r.co.CurrentBank(); got != 0 {
		t.Errorf("bank = %d, want 0", got)
	}
}

func TestRehydrate(t *testing.T) {
	r := newRig()
	clips := []*model.Clip{
		// Hand-edited row violating the trim invariant.
		{ID: "c1", DisplayName: "Airhorn", TotalDuration: 5, HeadTrim: 4, TailTrim: 4, Volume: 1},
	}
	playlists := []*model.Playlist{
		{ID: "p1", Name: "set", Mode: model.ContinuationAuto, Items: []*model.PlaylistItem{
			{ItemID: "i1", PlaylistID: "p1", ClipID: "c1", Position: 0},
		}},
	}
	hotkeys := []model.Hotkey{
		{BankID: 0, Position: 0, Kind: model.KindClip, TargetID: "c1"},
		{BankID: 0, Position: 1, Kind: model.KindClip, TargetID: "gone"},
		{BankID: 1, Position: 0, Kind: model.KindPlaylist, TargetID: "p1"},
	}

	r.co.Rehydrate(clips, playlists, hotkeys, model.UIState{CurrentBank: 9, LoopEnabled: true})

	got := r.co.Clips()
	if len(got) != 1 {
		t.Fatalf("clips = %d", len(got))
	}
	if sum := got[0].HeadTrim + got[0].TailTrim; sum > got[0].TotalDuration-model.TrimEpsilon+1e-9 {
		t.Errorf("trims not re-clamped: head %v tail %v", got[0].HeadTrim, got[0].TailTrim)
	}

	if k, _ := r.co.HotkeyAt(0, 0); !k.Assigned() {
		t.Error("live clip hotkey dropped")
	}
	if k, _ := r.co.HotkeyAt(0, 1); k.Assigned() {
		t.Error("dangling hotkey must be dropped")
	}
	if k, _ := r.co.HotkeyAt(1, 0); !k.Assigned() {
		t.Error("live playlist hotkey dropped")
	}

	if !r.co.Loop() {
		t.Error("loop preference not restored")
	}
	if got := r.co.CurrentBank(); got != 1 {
		t.Errorf("bank = %d, want clamped to 1", got)
	}
}

func TestSubscribeReceivesBroadcasts(t *testing.T) {
	r := newRig()
	r.addClip("c1", "Airhorn", 10, 0, 0)
	ch := r.co.Subscribe()
	defer r.co.Unsubscribe(ch)

	r.co.Play(Target{Kind: model.KindClip, ID: "c1"})

	select {
	case snap := <-ch:
		if snap.ActiveClipID != "c1" {
			t.Errorf("snapshot = %+v", snap)
		}
	default:
		t.Fatal("no snapshot broadcast")
	}
}
