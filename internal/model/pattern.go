package model

import (
	"fmt"
	"time"
)

// Pattern represents a breathing pattern: the inhale/hold/exhale
// duration triple (in seconds) that defines one breathing cycle.
type Pattern struct {
	Key       string    `json:"key"`
	Name      string    `json:"name" validate:"required,max=64"`
	Inhale    int       `json:"inhale_seconds" validate:"required,min=1,max=60"`
	Hold      int       `json:"hold_seconds" validate:"min=0,max=60"`
	Exhale    int       `json:"exhale_seconds" validate:"required,min=1,max=60"`
	Custom    bool      `json:"custom"`
	OwnerKey  string    `json:"owner_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this pattern.
func (p *Pattern) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for this pattern.
func (p *Pattern) GetKey() string {
	return p.Key
}

// CycleSeconds returns the length of one full breathing cycle.
func (p *Pattern) CycleSeconds() int {
	return p.Inhale + p.Hold + p.Exhale
}

// CycleDuration returns the length of one full breathing cycle.
func (p *Pattern) CycleDuration() time.Duration {
	return time.Duration(p.CycleSeconds()) * time.Second
}

// Spec returns the compact "inhale-hold-exhale" form, e.g. "4-7-8".
func (p *Pattern) Spec() string {
	return fmt.Sprintf("%d-%d-%d", p.Inhale, p.Hold, p.Exhale)
}

// GeneratePatternKey generates a database key for a pattern using UUID.
func GeneratePatternKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixPattern, uuid)
}

// NewPattern creates a new custom pattern owned by the given user.
func NewPattern(name string, inhale, hold, exhale int, ownerKey string) *Pattern {
	return &Pattern{
		Name:      name,
		Inhale:    inhale,
		Hold:      hold,
		Exhale:    exhale,
		Custom:    true,
		OwnerKey:  ownerKey,
		CreatedAt: time.Now(),
	}
}

// presets are the built-in patterns. They are process-wide constants:
// never persisted, never owned, never deletable.
var presets = []Pattern{
	{Name: "box", Inhale: 4, Hold: 4, Exhale: 4},
	{Name: "relaxing", Inhale: 4, Hold: 7, Exhale: 8},
	{Name: "calm", Inhale: 5, Hold: 2, Exhale: 7},
	{Name: "deep", Inhale: 6, Hold: 1, Exhale: 7},
}

// DefaultPatternName is the pattern used when none is specified.
const DefaultPatternName = "box"

// Presets returns the built-in patterns.
func Presets() []Pattern {
	out := make([]Pattern, len(presets))
	copy(out, presets)
	return out
}

// FindPreset returns the built-in pattern with the given name.
func FindPreset(name string) (Pattern, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}
