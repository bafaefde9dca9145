package model

// TargetKind says what a hotkey or play command points at.
type TargetKind string

const (
	KindClip     TargetKind = "clip"
	KindPlaylist TargetKind = "playlist"
)

// Hotkey is one slot of the fixed bank × position grid. Slots are never
// created or destroyed; only the assignment changes. An empty Kind means
// the slot is unassigned.
type Hotkey struct {
	BankID   int        `json:"bankId" gorm:"primaryKey;autoIncrement:false"`
	Position int        `json:"position" gorm:"primaryKey;autoIncrement:false"`
	Kind     TargetKind `json:"kind,omitempty" gorm:"size:16"`
	TargetID string     `json:"targetId,omitempty" gorm:"size:36;index"`
}

// TableName overrides the default table name.
func (Hotkey) TableName() string {
	return "hotkeys"
}

// Assigned reports whether the slot holds a target.
func (h Hotkey) Assigned() bool {
	return h.Kind != ""
}
