package player

import "testing"

func takeEvent(t *testing.T, e *Engine) Event {
	t.Helper()
	select {
	case ev := <-e.Events():
		return ev
	default:
		t.Fatal("no event queued")
	}
	return Event{}
}

func assertNoEvent(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case ev := <-e.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func startEngine(t *testing.T, e *Engine, clipID string, tail, total float64) uint64 {
	t.Helper()
	ep, err := e.Start(Source{ClipID: clipID}, 1, 0, tail, total)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return ep
}

func TestEngineProgressEvents(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	ep := startEngine(t, e, "c1", 0, 10)

	out.tick(3.5)
	ev := takeEvent(t, e)
	if ev.Kind != EventProgress || ev.ClipID != "c1" || ev.Position != 3.5 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Epoch != ep {
		t.Errorf("event epoch = %d, want %d", ev.Epoch, ep)
	}
}

func TestEngineTailBoundaryCompletes(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	startEngine(t, e, "c1", 2, 10)

	out.tick(7.9)
	if ev := takeEvent(t, e); ev.Kind != EventProgress {
		t.Fatalf("expected progress, got %+v", ev)
	}

	// Crossing total - tail halts the output and raises exactly one completion.
	out.tick(8.0)
	if out.stops != 1 {
		t.Errorf("output stops = %d, want 1", out.stops)
	}
	ev := takeEvent(t, e)
	if ev.Kind != EventCompleted || ev.ClipID != "c1" {
		t.Errorf("event = %+v", ev)
	}

	// The watch is disarmed: a straggling tick or end fires nothing.
	out.tick(8.2)
	out.end()
	assertNoEvent(t, e)
}

func TestEngineZeroTailMeansNaturalEnd(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	startEngine(t, e, "c1", 0, 10)

	out.tick(9.99)
	if ev := takeEvent(t, e); ev.Kind != EventProgress {
		t.Fatalf("expected progress, got %+v", ev)
	}

	out.end()
	ev := takeEvent(t, e)
	if ev.Kind != EventCompleted || ev.Position != 10 {
		t.Errorf("event = %+v", ev)
	}
}

func TestEngineStopRaisesNoCompletion(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	startEngine(t, e, "c1", 0, 10)

	e.Stop()
	if out.stops != 1 {
		t.Errorf("output stops = %d, want 1", out.stops)
	}
	// Callbacks armed before Stop belong to a dead epoch.
	out.tick(5)
	out.end()
	assertNoEvent(t, e)
}

func TestEngineRestartDisarmsOldCallbacks(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	ep1 := startEngine(t, e, "c1", 0, 10)
	oldEnd := out.onEnd

	ep2 := startEngine(t, e, "c2", 0, 20)
	if ep2 == ep1 {
		t.Fatalf("restart reused epoch %d", ep2)
	}

	// The first source's end callback must not complete the second.
	oldEnd()
	assertNoEvent(t, e)

	out.end()
	ev := takeEvent(t, e)
	if ev.Kind != EventCompleted || ev.ClipID != "c2" || ev.Epoch != ep2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestEngineSetTailBoundaryLive(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)
	startEngine(t, e, "c1", 0, 10)

	out.tick(8.5)
	takeEvent(t, e) // progress

	// A retrim while playing arms the new boundary on the next tick.
	e.SetTailBoundary(2)
	out.tick(8.6)
	ev := takeEvent(t, e)
	if ev.Kind != EventCompleted {
		t.Errorf("event = %+v, want completion past new boundary", ev)
	}
}

func TestEngineSeekOnlyWhileActive(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out)

	e.Seek(5)
	if len(out.seeks) != 0 {
		t.Error("Seek reached the output while nothing is loaded")
	}

	startEngine(t, e, "c1", 0, 10)
	e.Seek(5)
	if len(out.seeks) != 1 || out.seeks[0] != 5 {
		t.Errorf("seeks = %v", out.seeks)
	}
}

func TestEngineStartFailure(t *testing.T) {
	out := &fakeOutput{failErr: errStartFailed}
	e := NewEngine(out)
	if _, err := e.Start(Source{ClipID: "c1"}, 1, 0, 0, 10); err == nil {
		t.Fatal("Start should propagate the output error")
	}
	// A failed start leaves the engine inactive.
	e.Seek(3)
	if len(out.seeks) != 0 {
		t.Error("Seek reached the output after a failed start")
	}
}
