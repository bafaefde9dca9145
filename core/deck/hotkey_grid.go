package deck

import "sounddeck/model"

// HotkeyGrid is the fixed bank × position matrix. All slots exist for the
// grid's lifetime; only assignments change.
type HotkeyGrid struct {
	banks int
	slots int
	keys  [][]model.Hotkey
}

// NewHotkeyGrid creates a dense grid with every slot unassigned.
func NewHotkeyGrid(banks, slots int) *HotkeyGrid {
	if banks < 1 {
		banks = 1
	}
	if slots < 1 {
		slots = 1
	}
	keys := make([][]model.Hotkey, banks)
	for b := range keys {
		keys[b] = make([]model.Hotkey, slots)
		for p := range keys[b] {
			keys[b][p] = model.Hotkey{BankID: b, Position: p}
		}
	}
	return &HotkeyGrid{banks: banks, slots: slots, keys: keys}
}

// Banks returns the number of banks.
func (g *HotkeyGrid) Banks() int { return g.banks }

// Slots returns the number of positions per bank.
func (g *HotkeyGrid) Slots() int { return g.slots }

func (g *HotkeyGrid) inRange(bank, pos int) bool {
	return bank >= 0 && bank < g.banks && pos >= 0 && pos < g.slots
}

// At returns the slot at the given coordinates.
func (g *HotkeyGrid) At(bank, pos int) (model.Hotkey, bool) {
	if !g.inRange(bank, pos) {
		return model.Hotkey{}, false
	}
	return g.keys[bank][pos], true
}

// Assign writes a target into a slot, unconditionally overwriting whatever
// was there. Out-of-range coordinates are a no-op.
func (g *HotkeyGrid) Assign(bank, pos int, kind model.TargetKind, targetID string) bool {
	if !g.inRange(bank, pos) {
		return false
	}
	g.keys[bank][pos].Kind = kind
	g.keys[bank][pos].TargetID = targetID
	return true
}

// Clear empties a slot. Out-of-range coordinates are a no-op.
func (g *HotkeyGrid) Clear(bank, pos int) bool {
	if !g.inRange(bank, pos) {
		return false
	}
	g.keys[bank][pos].Kind = ""
	g.keys[bank][pos].TargetID = ""
	return true
}

// ClearTarget empties every slot referencing the given target, so a deleted
// clip or playlist never leaves a dangling assignment behind. Returns the
// number of slots cleared.
func (g *HotkeyGrid) ClearTarget(kind model.TargetKind, targetID string) int {
	cleared := 0
	for b := range g.keys {
		for p := range g.keys[b] {
			k := &g.keys[b][p]
			if k.Kind == kind && k.TargetID == targetID {
				k.Kind = ""
				k.TargetID = ""
				cleared++
			}
		}
	}
	return cleared
}

// Assigned returns every slot currently holding a target, in grid order.
func (g *HotkeyGrid) Assigned() []model.Hotkey {
	var out []model.Hotkey
	for b := range g.keys {
		for p := range g.keys[b] {
			if g.keys[b][p].Assigned() {
				out = append(out, g.keys[b][p])
			}
		}
	}
	return out
}

// Bank returns all slots of one bank, assigned or not, in position order.
func (g *HotkeyGrid) Bank(bank int) []model.Hotkey {
	if bank < 0 || bank >= g.banks {
		return nil
	}
	out := make([]model.Hotkey, g.slots)
	copy(out, g.keys[bank])
	return out
}
