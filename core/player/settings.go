package player

import (
	"sort"

	"sounddeck/model"
)

// ExportSettings builds the interchange document. Clips are keyed by
// display name because internal ids are not stable across installations.
// Playlist items whose clip has meanwhile disappeared are skipped.
func (c *Coordinator) ExportSettings() model.SettingsDoc {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := model.SettingsDoc{Version: 1}

	for _, clip := range c.deck.Clips.All() {
		doc.Clips = append(doc.Clips, model.SettingsClip{
			DisplayName: clip.DisplayName,
			Volume:      clip.Volume,
			HeadTrim:    clip.HeadTrim,
			TailTrim:    clip.TailTrim,
		})
	}

	for _, p := range c.deck.Playlists.All() {
		sp := model.SettingsPlaylist{Name: p.Name, Mode: p.Mode}
		for _, it := range p.Items {
			clip := c.deck.Clips.Get(it.ClipID)
			if clip == nil {
				continue
			}
			sp.Items = append(sp.Items, clip.DisplayName)
		}
		doc.Playlists = append(doc.Playlists, sp)
	}

	for _, k := range c.deck.Hotkeys.Assigned() {
		sh := model.SettingsHotkey{Bank: k.BankID, Position: k.Position, Kind: k.Kind}
		switch k.Kind {
		case model.KindClip:
			clip := c.deck.Clips.Get(k.TargetID)
			if clip == nil {
				continue
			}
			sh.Target = clip.DisplayName
		case model.KindPlaylist:
			p := c.deck.Playlists.Get(k.TargetID)
			if p == nil {
				continue
			}
			sh.Target = p.Name
		}
		doc.Hotkeys = append(doc.Hotkeys, sh)
	}

	return doc
}

// ImportSettings applies an interchange document against the current
// library. Names that cannot be resolved are collected into one summary
// report; everything that does resolve is applied. Nothing fails the
// import as a whole.
func (c *Coordinator) ImportSettings(doc model.SettingsDoc) model.ImportReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := model.ImportReport{}
	unresolved := make(map[string]struct{})

	for _, sc := range doc.Clips {
		clip := c.deck.Clips.GetByName(sc.DisplayName)
		if clip == nil {
			unresolved[sc.DisplayName] = struct{}{}
			continue
		}
		clip.SetVolume(sc.Volume)
		clip.SetHeadTrim(sc.HeadTrim)
		clip.SetTailTrim(sc.TailTrim)
		report.ClipsApplied++
	}

	for _, sp := range doc.Playlists {
		p := c.deck.Playlists.GetByName(sp.Name)
		if p == nil {
			p = c.createPlaylistLocked(sp.Name)
			report.PlaylistsCreated++
		}
		mode := sp.Mode
		if mode != model.ContinuationAuto && mode != model.ContinuationManual {
			mode = model.ContinuationAuto
		}
		p.Mode = mode
		for _, name := range sp.Items {
			clip := c.deck.Clips.GetByName(name)
			if clip == nil {
				unresolved[name] = struct{}{}
				continue
			}
			c.appendItemLocked(p, clip.ID)
		}
	}

	for _, sh := range doc.Hotkeys {
		var targetID string
		switch sh.Kind {
		case model.KindClip:
			if clip := c.deck.Clips.GetByName(sh.Target); clip != nil {
				targetID = clip.ID
			}
		case model.KindPlaylist:
			if p := c.deck.Playlists.GetByName(sh.Target); p != nil {
				targetID = p.ID
			}
		}
		if targetID == "" {
			unresolved[sh.Target] = struct{}{}
			continue
		}
		if c.deck.Hotkeys.Assign(sh.Bank, sh.Position, sh.Kind, targetID) {
			report.HotkeysAssigned++
		}
	}

	for name := range unresolved {
		report.Unresolved = append(report.Unresolved, name)
	}
	sort.Strings(report.Unresolved)
	return report
}
