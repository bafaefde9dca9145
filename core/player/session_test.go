package player

import (
	"testing"

	"sounddeck/model"
)

func TestCompletionNext(t *testing.T) {
	single := session{state: model.StateSingle, clipID: "c1"}
	inList := func(index int) session {
		return session{state: model.StatePlaylist, clipID: "c1", playlistID: "p1", index: index}
	}

	tests := []struct {
		name      string
		sess      session
		loop      bool
		mode      model.ContinuationMode
		length    int
		wantKind  actionKind
		wantIndex int
		wantState model.PlayState
	}{
		{
			name: "single stops", sess: single,
			wantKind: actStop, wantState: model.StateIdle,
		},
		{
			name: "single with loop restarts", sess: single, loop: true,
			wantKind: actRestartClip, wantState: model.StateSingle,
		},
		{
			name: "playlist advances", sess: inList(0), mode: model.ContinuationAuto, length: 3,
			wantKind: actStartIndex, wantIndex: 1, wantState: model.StatePlaylist,
		},
		{
			name: "playlist advances from middle", sess: inList(1), mode: model.ContinuationAuto, length: 3,
			wantKind: actStartIndex, wantIndex: 2, wantState: model.StatePlaylist,
		},
		{
			name: "playlist ends at last item", sess: inList(2), mode: model.ContinuationAuto, length: 3,
			wantKind: actStop, wantState: model.StateIdle,
		},
		{
			name: "playlist wraps with loop", sess: inList(2), loop: true, mode: model.ContinuationAuto, length: 3,
			wantKind: actStartIndex, wantIndex: 0, wantState: model.StatePlaylist,
		},
		{
			name: "manual mode stops after item", sess: inList(0), mode: model.ContinuationManual, length: 3,
			wantKind: actStop, wantState: model.StateIdle,
		},
		{
			name: "manual mode stops even with loop", sess: inList(0), loop: true, mode: model.ContinuationManual, length: 3,
			wantKind: actStop, wantState: model.StateIdle,
		},
		{
			name: "single item playlist with loop wraps to itself", sess: inList(0), loop: true, mode: model.ContinuationAuto, length: 1,
			wantKind: actStartIndex, wantIndex: 0, wantState: model.StatePlaylist,
		},
		{
			name: "idle is inert", sess: idleSession(),
			wantKind: actStop, wantState: model.StateIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, act := completionNext(tt.sess, tt.loop, tt.mode, tt.length)
			if act.kind != tt.wantKind {
				t.Errorf("action kind = %v, want %v", act.kind, tt.wantKind)
			}
			if act.kind == actStartIndex && act.index != tt.wantIndex {
				t.Errorf("action index = %d, want %d", act.index, tt.wantIndex)
			}
			if next.state != tt.wantState {
				t.Errorf("next state = %v, want %v", next.state, tt.wantState)
			}
			if tt.wantKind == actStartIndex && next.index != tt.wantIndex {
				t.Errorf("next index = %d, want %d", next.index, tt.wantIndex)
			}
		})
	}
}
