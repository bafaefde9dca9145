package player

import (
	"context"
	"sync"
	"time"

	"sounddeck/core/deck"
	"sounddeck/logger"
	"sounddeck/model"

	"github.com/google/uuid"
)

// Target identifies what a play command refers to.
type Target struct {
	Kind model.TargetKind `json:"kind"`
	ID   string           `json:"id"`
}

// ClipUpdate is a partial-field clip edit. Nil fields are left untouched.
type ClipUpdate struct {
	DisplayName *string
	Volume      *float64
	HeadTrim    *float64
	TailTrim    *float64
}

// PlaylistUpdate is a partial-field playlist edit.
type PlaylistUpdate struct {
	Name *string
	Mode *model.ContinuationMode
}

// Coordinator owns the deck stores and the playback session. Every mutation
// and every engine callback is serialized behind one mutex: the core is one
// logical thread of interleaved events, never true concurrency. It is the
// sole subscriber of the engine's event channel.
//
// The coordinator never persists anything; callers persist after each
// mutation and rehydrate the stores on startup.
type Coordinator struct {
	mu     sync.Mutex
	deck   *deck.Deck
	engine *Engine

	sess session
	loop bool
	bank int

	subs map[chan model.SessionSnapshot]struct{}
}

// NewCoordinator wires the stores and the engine together.
func NewCoordinator(d *deck.Deck, e *Engine) *Coordinator {
	return &Coordinator{
		deck:   d,
		engine: e,
		sess:   idleSession(),
		subs:   make(map[chan model.SessionSnapshot]struct{}),
	}
}

// Run consumes engine events until ctx is cancelled. Must be running for
// auto-advance and elapsed-time updates to work.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.engine.Events():
			switch ev.Kind {
			case EventProgress:
				c.handleProgress(ev)
			case EventCompleted:
				c.handleCompletion(ev)
			}
		}
	}
}

// ========== Playback commands ==========

// Play starts playback of a clip or a playlist. Unknown targets and empty
// playlists are no-ops: the prior session state is left untouched.
func (c *Coordinator) Play(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch t.Kind {
	case model.KindClip:
		clip := c.deck.Clips.Get(t.ID)
		if clip == nil {
			return
		}
		c.sess = session{state: model.StateSingle, clipID: clip.ID}
		c.startClipLocked(clip, clip.HeadTrim)

	case model.KindPlaylist:
		p := c.deck.Playlists.Get(t.ID)
		if p == nil || p.Len() == 0 {
			return
		}
		clipID, _ := p.ClipAt(0)
		clip := c.deck.Clips.Get(clipID)
		if clip == nil {
			return
		}
		c.sess = session{state: model.StatePlaylist, clipID: clip.ID, playlistID: p.ID}
		c.startClipLocked(clip, clip.HeadTrim)
	}
	c.broadcastLocked()
}

// PlayHotkey triggers whatever the given slot is assigned to.
// Unassigned or out-of-range slots are no-ops.
func (c *Coordinator) PlayHotkey(bank, pos int) {
	c.mu.Lock()
	key, ok := c.deck.Hotkeys.At(bank, pos)
	c.mu.Unlock()
	if !ok || !key.Assigned() {
		return
	}
	c.Play(Target{Kind: key.Kind, ID: key.TargetID})
}

// Stop halts output, zeroes the session and keeps the loop preference.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.broadcastLocked()
}

// Pause halts output without changing the logical state. The elapsed time
// is recorded so a later Resume can restart at the same offset.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state == model.StateIdle || c.sess.paused {
		return
	}
	c.sess.elapsed = c.engine.CurrentTime()
	c.engine.Pause()
	c.sess.paused = true
	c.broadcastLocked()
}

// Resume restarts output at the recorded elapsed time. The tail boundary is
// re-derived from the clip's current trims, so a retrim made while paused
// takes effect here.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state == model.StateIdle || !c.sess.paused {
		return
	}
	clip := c.deck.Clips.Get(c.sess.clipID)
	if clip == nil {
		c.stopLocked()
		c.broadcastLocked()
		return
	}
	offset := c.sess.elapsed
	if offset < clip.HeadTrim {
		offset = clip.HeadTrim
	}
	c.startClipLocked(clip, offset)
	c.broadcastLocked()
}

// Next jumps to the following playlist item. Only valid while playing a
// playlist; a no-op at the last index even when loop is enabled. Always
// starts playback, discarding a paused state.
func (c *Coordinator) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.activePlaylistLocked()
	if p == nil || c.sess.index >= p.Len()-1 {
		return
	}
	c.jumpToIndexLocked(p, c.sess.index+1)
}

// Previous jumps to the preceding playlist item. A no-op at index zero.
func (c *Coordinator) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.activePlaylistLocked()
	if p == nil || c.sess.index <= 0 {
		return
	}
	c.jumpToIndexLocked(p, c.sess.index-1)
}

// Seek repositions output within the current source. A no-op when idle.
func (c *Coordinator) Seek(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state == model.StateIdle {
		return
	}
	c.engine.Seek(pos)
	c.sess.elapsed = pos
	c.broadcastLocked()
}

// SetLoop flips the loop preference. It survives Stop.
func (c *Coordinator) SetLoop(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = enabled
	c.broadcastLocked()
}

// Loop returns the loop preference.
func (c *Coordinator) Loop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loop
}

// SetCurrentBank selects the visible hotkey bank, clamped into range.
func (c *Coordinator) SetCurrentBank(bank int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bank < 0 {
		bank = 0
	}
	if max := c.deck.Hotkeys.Banks() - 1; bank > max {
		bank = max
	}
	c.bank = bank
	c.broadcastLocked()
}

// CurrentBank returns the selected hotkey bank.
func (c *Coordinator) CurrentBank() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bank
}

// Snapshot returns the current session read model.
func (c *Coordinator) Snapshot() model.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ========== Clip mutations ==========

// AddClip registers an imported clip whose duration has been resolved.
func (c *Coordinator) AddClip(clip *model.Clip) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deck.Clips.Add(clip)
}

// UpdateClip applies a partial edit and returns a copy of the result.
// Edits to the playing clip take effect live: the tail boundary is replaced
// on the engine, and if the new head trim is ahead of the elapsed time the
// output seeks forward to it. Playback already past the new head boundary
// is never seeked backward.
func (c *Coordinator) UpdateClip(id string, upd ClipUpdate) (model.Clip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clip := c.deck.Clips.Get(id)
	if clip == nil {
		return model.Clip{}, false
	}
	if upd.DisplayName != nil && *upd.DisplayName != "" {
		clip.DisplayName = *upd.DisplayName
	}
	if upd.Volume != nil {
		clip.SetVolume(*upd.Volume)
	}
	if upd.HeadTrim != nil {
		clip.SetHeadTrim(*upd.HeadTrim)
	}
	if upd.TailTrim != nil {
		clip.SetTailTrim(*upd.TailTrim)
	}
	clip.UpdatedAt = time.Now()

	if c.sess.state != model.StateIdle && c.sess.clipID == clip.ID {
		c.engine.SetTailBoundary(clip.TailTrim)
		if upd.HeadTrim != nil && clip.HeadTrim > c.sess.elapsed {
			c.engine.Seek(clip.HeadTrim)
			c.sess.elapsed = clip.HeadTrim
		}
		c.broadcastLocked()
	}
	return *clip, true
}

// DeleteClip removes a clip and cascades: every playlist item and hotkey
// assignment referencing it goes away, and if it is the active clip the
// session stops. Deleting a missing id is a no-op. The removed clip is
// returned so the caller can delete the stored audio.
func (c *Coordinator) DeleteClip(id string) (model.Clip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clip := c.deck.Clips.Get(id)
	if clip == nil {
		return model.Clip{}, false
	}
	removed := *clip

	changed := c.deck.Playlists.RemoveClipRefs(id)
	cleared := c.deck.Hotkeys.ClearTarget(model.KindClip, id)
	if c.sess.state != model.StateIdle && c.sess.clipID == id {
		c.stopLocked()
	}
	c.deck.Clips.Remove(id)

	logger.Info("clip deleted",
		logger.String("clipId", id),
		logger.Int("playlistsChanged", len(changed)),
		logger.Int("hotkeysCleared", cleared))
	c.broadcastLocked()
	return removed, true
}

// Clips returns value copies of the catalog, ordered by display name.
func (c *Coordinator) Clips() []model.Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.deck.Clips.All()
	out := make([]model.Clip, len(all))
	for i, clip := range all {
		out[i] = *clip
	}
	return out
}

// ========== Playlist mutations ==========

// CreatePlaylist creates an empty playlist with auto continuation.
func (c *Coordinator) CreatePlaylist(userID int64, name string) model.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.createPlaylistLocked(name)
	p.UserID = userID
	return *p
}

func (c *Coordinator) createPlaylistLocked(name string) *model.Playlist {
	p := &model.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      model.ContinuationAuto,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	c.deck.Playlists.Add(p)
	return p
}

func (c *Coordinator) appendItemLocked(p *model.Playlist, clipID string) *model.PlaylistItem {
	item := &model.PlaylistItem{
		ItemID:     uuid.NewString(),
		PlaylistID: p.ID,
		ClipID:     clipID,
		Position:   p.Len(),
		CreatedAt:  time.Now(),
	}
	p.Items = append(p.Items, item)
	p.UpdatedAt = time.Now()
	return item
}

// UpdatePlaylist applies a partial edit and returns a copy of the result.
func (c *Coordinator) UpdatePlaylist(id string, upd PlaylistUpdate) (model.Playlist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.deck.Playlists.Get(id)
	if p == nil {
		return model.Playlist{}, false
	}
	if upd.Name != nil && *upd.Name != "" {
		p.Name = *upd.Name
	}
	if upd.Mode != nil && (*upd.Mode == model.ContinuationAuto || *upd.Mode == model.ContinuationManual) {
		p.Mode = *upd.Mode
	}
	p.UpdatedAt = time.Now()
	return c.copyPlaylist(p), true
}

// DeletePlaylist removes a playlist, clears its hotkey assignments and
// stops the session if it is the active playlist. Missing id is a no-op.
func (c *Coordinator) DeletePlaylist(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deck.Playlists.Get(id) == nil {
		return false
	}
	c.deck.Hotkeys.ClearTarget(model.KindPlaylist, id)
	if c.sess.state == model.StatePlaylist && c.sess.playlistID == id {
		c.stopLocked()
	}
	c.deck.Playlists.Remove(id)
	c.broadcastLocked()
	return true
}

// AddItem appends a clip reference to a playlist. The same clip may be
// added any number of times; every insertion gets a fresh item id.
func (c *Coordinator) AddItem(playlistID, clipID string) (model.PlaylistItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.deck.Playlists.Get(playlistID)
	if p == nil || c.deck.Clips.Get(clipID) == nil {
		return model.PlaylistItem{}, false
	}
	return *c.appendItemLocked(p, clipID), true
}

// RemoveItem removes one playlist item. The active playlist index is
// positional and is deliberately not remapped when earlier items go away.
func (c *Coordinator) RemoveItem(playlistID, itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.deck.Playlists.Get(playlistID)
	if p == nil {
		return false
	}
	if !p.RemoveItem(itemID) {
		return false
	}
	p.UpdatedAt = time.Now()
	return true
}

// MoveItem reorders one playlist item. Positional session semantics apply:
// reordering the playing playlist does not move the session index along.
func (c *Coordinator) MoveItem(playlistID, itemID string, to int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.deck.Playlists.Get(playlistID)
	if p == nil {
		return false
	}
	if !p.MoveItem(itemID, to) {
		return false
	}
	p.UpdatedAt = time.Now()
	return true
}

// PlaylistByID returns a deep copy of one playlist.
func (c *Coordinator) PlaylistByID(id string) (model.Playlist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.deck.Playlists.Get(id)
	if p == nil {
		return model.Playlist{}, false
	}
	return c.copyPlaylist(p), true
}

// Playlists returns deep copies of all playlists, ordered by name.
func (c *Coordinator) Playlists() []model.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.deck.Playlists.All()
	out := make([]model.Playlist, len(all))
	for i, p := range all {
		out[i] = c.copyPlaylist(p)
	}
	return out
}

// ========== Hotkey mutations ==========

// AssignHotkey writes a target into a slot, overwriting unconditionally.
// The target must reference a live clip or playlist.
func (c *Coordinator) AssignHotkey(bank, pos int, kind model.TargetKind, targetID string) (model.Hotkey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case model.KindClip:
		if c.deck.Clips.Get(targetID) == nil {
			return model.Hotkey{}, false
		}
	case model.KindPlaylist:
		if c.deck.Playlists.Get(targetID) == nil {
			return model.Hotkey{}, false
		}
	default:
		return model.Hotkey{}, false
	}
	if !c.deck.Hotkeys.Assign(bank, pos, kind, targetID) {
		return model.Hotkey{}, false
	}
	key, _ := c.deck.Hotkeys.At(bank, pos)
	return key, true
}

// ClearHotkey empties a slot. Out-of-range coordinates are a no-op.
func (c *Coordinator) ClearHotkey(bank, pos int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.Hotkeys.Clear(bank, pos)
}

// HotkeyAt returns one slot.
func (c *Coordinator) HotkeyAt(bank, pos int) (model.Hotkey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.Hotkeys.At(bank, pos)
}

// AssignedHotkeys returns every slot holding a target.
func (c *Coordinator) AssignedHotkeys() []model.Hotkey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.Hotkeys.Assigned()
}

// HotkeyBank returns the full slot list of one bank.
func (c *Coordinator) HotkeyBank(bank int) []model.Hotkey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.Hotkeys.Bank(bank)
}

// ========== Rehydration & subscriptions ==========

// Rehydrate loads persisted records into the stores. Hotkey assignments
// pointing at entities that no longer exist are dropped on the way in.
func (c *Coordinator) Rehydrate(clips []*model.Clip, playlists []*model.Playlist, hotkeys []model.Hotkey, ui model.UIState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, clip := range clips {
		// Re-clamp on the way in; the invariant holds even against
		// hand-edited rows.
		clip.SetHeadTrim(clip.HeadTrim)
		clip.SetTailTrim(clip.TailTrim)
		c.deck.Clips.Add(clip)
	}
	for _, p := range playlists {
		c.deck.Playlists.Add(p)
	}
	for _, k := range hotkeys {
		if !k.Assigned() {
			continue
		}
		live := (k.Kind == model.KindClip && c.deck.Clips.Get(k.TargetID) != nil) ||
			(k.Kind == model.KindPlaylist && c.deck.Playlists.Get(k.TargetID) != nil)
		if !live {
			logger.Warn("dropping dangling hotkey assignment",
				logger.Int("bank", k.BankID),
				logger.Int("position", k.Position),
				logger.String("targetId", k.TargetID))
			continue
		}
		c.deck.Hotkeys.Assign(k.BankID, k.Position, k.Kind, k.TargetID)
	}
	c.loop = ui.LoopEnabled
	c.bank = ui.CurrentBank
	if max := c.deck.Hotkeys.Banks() - 1; c.bank > max {
		c.bank = max
	}
	if c.bank < 0 {
		c.bank = 0
	}
}

// Subscribe registers a session snapshot feed. Slow subscribers miss
// intermediate snapshots rather than blocking playback.
func (c *Coordinator) Subscribe() chan model.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan model.SessionSnapshot, 8)
	c.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a feed registered with Subscribe.
func (c *Coordinator) Unsubscribe(ch chan model.SessionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, ch)
}

// ========== Engine event handling ==========

func (c *Coordinator) handleProgress(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.state == model.StateIdle || c.sess.paused || c.sess.epoch != ev.Epoch {
		return
	}
	c.sess.elapsed = ev.Position
	c.broadcastLocked()
}

func (c *Coordinator) handleCompletion(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A completion that arrives after the session has moved on (stop,
	// delete, skip, retrigger) is stale and must be ignored, not applied.
	// The check is on the epoch, not the clip id: a retriggered clip and a
	// playlist holding the same clip twice both produce events with equal
	// clip ids but distinct epochs.
	if c.sess.state == model.StateIdle || c.sess.epoch != ev.Epoch {
		return
	}

	var (
		p      *model.Playlist
		length int
		mode   = model.ContinuationAuto
	)
	if c.sess.state == model.StatePlaylist {
		p = c.deck.Playlists.Get(c.sess.playlistID)
		if p == nil {
			c.stopLocked()
			c.broadcastLocked()
			return
		}
		length = p.Len()
		mode = p.Mode
	}

	next, act := completionNext(c.sess, c.loop, mode, length)
	switch act.kind {
	case actStop:
		c.stopLocked()

	case actRestartClip:
		clip := c.deck.Clips.Get(next.clipID)
		if clip == nil {
			c.stopLocked()
			break
		}
		c.sess = next
		c.startClipLocked(clip, clip.HeadTrim)

	case actStartIndex:
		clipID, ok := p.ClipAt(act.index)
		if !ok {
			c.stopLocked()
			break
		}
		clip := c.deck.Clips.Get(clipID)
		if clip == nil {
			c.stopLocked()
			break
		}
		next.clipID = clip.ID
		c.sess = next
		c.startClipLocked(clip, clip.HeadTrim)
	}
	c.broadcastLocked()
}

// ========== Internals (callers hold c.mu) ==========

func (c *Coordinator) activePlaylistLocked() *model.Playlist {
	if c.sess.state != model.StatePlaylist {
		return nil
	}
	return c.deck.Playlists.Get(c.sess.playlistID)
}

func (c *Coordinator) jumpToIndexLocked(p *model.Playlist, index int) {
	clipID, ok := p.ClipAt(index)
	if !ok {
		return
	}
	clip := c.deck.Clips.Get(clipID)
	if clip == nil {
		return
	}
	c.sess.index = index
	c.sess.clipID = clip.ID
	c.startClipLocked(clip, clip.HeadTrim)
	c.broadcastLocked()
}

func (c *Coordinator) startClipLocked(clip *model.Clip, offset float64) {
	src := Source{ClipID: clip.ID, Handle: clip.SourceHandle, MimeType: clip.MimeType}
	ep, err := c.engine.Start(src, clip.Volume, offset, clip.TailTrim, clip.TotalDuration)
	if err != nil {
		logger.Error("failed to start output",
			logger.String("clipId", clip.ID),
			logger.ErrorField(err))
		c.sess = idleSession()
		return
	}
	c.sess.clipID = clip.ID
	c.sess.epoch = ep
	c.sess.elapsed = offset
	c.sess.paused = false
}

func (c *Coordinator) stopLocked() {
	c.engine.Stop()
	c.sess = idleSession()
}

func (c *Coordinator) snapshotLocked() model.SessionSnapshot {
	snap := model.SessionSnapshot{
		State:       c.sess.state,
		IsActive:    c.sess.state != model.StateIdle,
		Paused:      c.sess.paused,
		Elapsed:     c.sess.elapsed,
		LoopEnabled: c.loop,
		CurrentBank: c.bank,
	}
	if snap.IsActive {
		snap.ActiveClipID = c.sess.clipID
	}
	if c.sess.state == model.StatePlaylist {
		snap.ActivePlaylistID = c.sess.playlistID
		snap.ActivePlaylistIndex = c.sess.index
	}
	return snap
}

func (c *Coordinator) broadcastLocked() {
	snap := c.snapshotLocked()
	for ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (c *Coordinator) copyPlaylist(p *model.Playlist) model.Playlist {
	out := *p
	out.Items = make([]*model.PlaylistItem, len(p.Items))
	for i, it := range p.Items {
		item := *it
		out.Items[i] = &item
	}
	return out
}
