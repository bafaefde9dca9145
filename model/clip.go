package model

import "time"

// TrimEpsilon is the minimum playable window that must survive trimming,
// in seconds. Head and tail trims are clamped so that
// headTrim + tailTrim <= totalDuration - TrimEpsilon always holds.
const TrimEpsilon = 0.1

// Clip represents an imported audio asset in the library.
// Trims are non-destructive offsets into the stored audio; the underlying
// object is never rewritten.
type Clip struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserID        int64     `json:"userId" gorm:"index"`
	DisplayName   string    `json:"displayName" gorm:"size:255;not null"`
	SourceHandle  string    `json:"-" gorm:"size:512"` // object path in blob storage
	MimeType      string    `json:"mimeType" gorm:"size:64"`
	TotalDuration float64   `json:"totalDuration"` // seconds, resolved at import
	Volume        float64   `json:"volume" gorm:"default:1"`
	HeadTrim      float64   `json:"headTrim"`
	TailTrim      float64   `json:"tailTrim"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName overrides the default table name.
func (Clip) TableName() string {
	return "clips"
}

// EffectiveDuration is the playable length after trims, floored at zero.
// Always recomputed, never cached.
func (c *Clip) EffectiveDuration() float64 {
	d := c.TotalDuration - c.HeadTrim - c.TailTrim
	if d < 0 {
		return 0
	}
	return d
}

// SetHeadTrim sets the head trim, clamping so the playable window keeps at
// least TrimEpsilon seconds. Out-of-range values are clamped, never rejected.
func (c *Clip) SetHeadTrim(v float64) {
	max := c.TotalDuration - TrimEpsilon - c.TailTrim
	if max < 0 {
		max = 0
	}
	c.HeadTrim = clamp(v, 0, max)
}

// SetTailTrim sets the tail trim with the same clamping rule as SetHeadTrim.
func (c *Clip) SetTailTrim(v float64) {
	max := c.TotalDuration - TrimEpsilon - c.HeadTrim
	if max < 0 {
		max = 0
	}
	c.TailTrim = clamp(v, 0, max)
}

// SetVolume sets the clip volume, clamped to [0, 1].
func (c *Clip) SetVolume(v float64) {
	c.Volume = clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
