package domain

import (
	"fmt"
	"strings"
)

// VibeTheme selects the pool a vibe is sampled from.
type VibeTheme string

const (
	ThemeRandom    VibeTheme = "random"
	ThemeAesthetic VibeTheme = "aesthetic"
	ThemeMinimal   VibeTheme = "minimal"
	ThemeVibrant   VibeTheme = "vibrant"
	ThemeNostalgic VibeTheme = "nostalgic"
	ThemeDreamy    VibeTheme = "dreamy"
	ThemeGlitch    VibeTheme = "glitch"
	ThemeCozy      VibeTheme = "cozy"
)

// ThemeInfo is the display metadata for a theme.
type ThemeInfo struct {
	Theme VibeTheme `json:"theme"`
	Emoji string    `json:"emoji"`
	Label string    `json:"label"`
}

// Themes lists every theme in display order.
var Themes = []ThemeInfo{
	{Theme: ThemeRandom, Emoji: "🎲", Label: "Random"},
	{Theme: ThemeAesthetic, Emoji: "🌸", Label: "Aesthetic"},
	{Theme: ThemeMinimal, Emoji: "◻️", Label: "Minimal"},
	{Theme: ThemeVibrant, Emoji: "🌈", Label: "Vibrant"},
	{Theme: ThemeNostalgic, Emoji: "📼", Label: "Nostalgic"},
	{Theme: ThemeDreamy, Emoji: "🌙", Label: "Dreamy"},
	{Theme: ThemeGlitch, Emoji: "👾", Label: "Glitch"},
	{Theme: ThemeCozy, Emoji: "🧸", Label: "Cozy"},
}

// Valid reports whether t is one of the declared themes.
func (t VibeTheme) Valid() bool {
	for _, info := range Themes {
		if info.Theme == t {
			return true
		}
	}
	return false
}

// ParseTheme converts user input into a VibeTheme. An empty string means random.
func ParseTheme(raw string) (VibeTheme, error) {
	normalized := VibeTheme(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return ThemeRandom, nil
	}
	if !normalized.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}
	return normalized, nil
}

// Vibe is a sampled aesthetic parameter set. Values are never mutated once
// sampled; WithTrack returns a copy.
type Vibe struct {
	Background string    `json:"bg"`
	Font       string    `json:"font"`
	Pet        string    `json:"pet"`
	Quote      string    `json:"quote"`
	Audio      string    `json:"audio"`
	Theme      VibeTheme `json:"theme"`
	Track      *TrackRef `json:"track,omitempty"`
}

// WithTrack returns a copy of v with the resolved track attached.
func (v Vibe) WithTrack(track *TrackRef) Vibe {
	out := v
	if track != nil {
		t := *track
		out.Track = &t
	}
	return out
}
