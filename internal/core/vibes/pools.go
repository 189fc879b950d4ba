package vibes

import (
	"fmt"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// Pool is the set of candidates a theme draws from.
type Pool struct {
	Backgrounds []string
	Fonts       []string
	Pets        []string
	Captions    []string
}

func (p Pool) validate(theme domain.VibeTheme) error {
	fields := map[string][]string{
		"backgrounds": p.Backgrounds,
		"fonts":       p.Fonts,
		"pets":        p.Pets,
		"captions":    p.Captions,
	}
	for name, values := range fields {
		if len(values) == 0 {
			return fmt.Errorf("vibes: %s pool for theme %q is empty", name, theme)
		}
		for i, v := range values {
			if v == "" {
				return fmt.Errorf("vibes: %s pool for theme %q has empty entry at %d", name, theme, i)
			}
		}
	}
	return nil
}

// Audios is the ambient track pool. It is shared by every theme.
var Audios = []string{
	"/assets/rain.mp3",
	"/assets/synth.mp3",
	"/assets/stargarden.mp3",
	"/assets/digital.mp3",
	"/assets/dreamcore.mp3",
	"/assets/voidwave.mp3",
	"/assets/pixel.mp3",
}

var basePool = Pool{
	Backgrounds: []string{
		"bg-gradient-to-br from-pink-500 via-purple-600 to-blue-500",
		"bg-gradient-to-tl from-yellow-200 via-red-300 to-pink-500",
		"bg-[#0f0f1f]",
		"bg-gradient-radial from-gray-800 via-indigo-900 to-black",
		"bg-gradient-to-b from-orange-200 via-pink-300 to-purple-500",
		"bg-gradient-to-r from-indigo-700 via-purple-700 to-pink-700",
	},
	Pets:  []string{"🦊", "🐸", "👾", "🐱", "🌸", "🧸", "🪐", "🐢"},
	Fonts: []string{"font-sans", "font-mono", "font-serif", "font-light"},
	Captions: []string{
		"Float in the glitch.",
		"You are a loop in the system.",
		"Tonight feels like a synthwave dream.",
		"The void is calm. You are too.",
		"Pause. Breathe. Drift.",
		"This vibe never existed until now.",
		"Let the pixels carry you home.",
		"You are seen by the neon.",
	},
}

var themePools = map[domain.VibeTheme]Pool{
	domain.ThemeAesthetic: {
		Backgrounds: []string{
			"bg-gradient-to-br from-pink-200 via-rose-300 to-purple-300",
			"bg-gradient-to-tr from-fuchsia-300 via-pink-200 to-rose-100",
			"bg-gradient-to-b from-purple-200 via-pink-300 to-rose-400",
		},
		Fonts:    []string{"font-serif", "font-light"},
		Pets:     []string{"🌸", "🦢", "🕊️", "🪷", "🌷", "🦋", "🦩"},
		Captions: []string{"Bloom where the light is soft.", "Delicate is still strong.", "Soft hours, slow petals."},
	},
	domain.ThemeMinimal: {
		Backgrounds: []string{
			"bg-[#0f0f1f]",
			"bg-gradient-to-b from-gray-900 to-black",
			"bg-[#f5f5f5]",
		},
		Fonts:    []string{"font-sans", "font-mono", "font-light"},
		Pets:     []string{"◻️", "◼️", "⚪", "⚫", "🔲", "🔳"},
		Captions: []string{"Less, but better.", "Simple is enough.", "Silence has edges too."},
	},
	domain.ThemeVibrant: {
		Backgrounds: []string{
			"bg-gradient-to-r from-green-400 via-teal-400 to-blue-500",
			"bg-gradient-to-br from-yellow-300 via-green-400 to-teal-500",
			"bg-gradient-to-tl from-blue-400 via-teal-300 to-yellow-200",
		},
		Fonts:    []string{"font-sans", "font-mono"},
		Pets:     []string{"🌈", "✨", "💫", "⭐", "🔆", "🎨"},
		Captions: []string{"Color outside the day.", "Joy is a vibrant frequency.", "Turn the brightness all the way up."},
	},
	domain.ThemeNostalgic: {
		Backgrounds: []string{
			"bg-gradient-to-b from-amber-200 via-orange-300 to-amber-500",
			"bg-gradient-to-br from-orange-200 via-amber-300 to-orange-500",
			"bg-gradient-to-t from-amber-700 via-orange-400 to-amber-200",
		},
		Fonts:    []string{"font-serif", "font-mono"},
		Pets:     []string{"📻", "📺", "🎮", "💾", "📼", "🕹️"},
		Captions: []string{"Remember the static between channels.", "Old memories play on repeat.", "Rewind to the good part."},
	},
	domain.ThemeDreamy: {
		Backgrounds: []string{
			"bg-gradient-to-b from-indigo-900 via-slate-800 to-indigo-700",
			"bg-gradient-radial from-slate-700 via-indigo-800 to-slate-900",
			"bg-gradient-to-tr from-indigo-400 via-slate-300 to-indigo-200",
		},
		Fonts:    []string{"font-light", "font-serif"},
		Pets:     []string{"🌙", "☁️", "🌌", "🔮", "🌠"},
		Captions: []string{"Dream in slow motion.", "Every star is a small yes.", "Drift through the cosmos tonight."},
	},
	domain.ThemeGlitch: {
		Backgrounds: []string{
			"bg-[#0a0014]",
			"bg-gradient-to-r from-black via-fuchsia-900 to-black",
			"bg-gradient-to-b from-black via-green-900 to-black",
		},
		Fonts:    []string{"font-mono"},
		Pets:     []string{"👾", "🤖", "💻", "🖥️", "📱", "🎛️"},
		Captions: []string{"You are a loop in the system.", "Digital ghosts hum softly.", "Every pixel remembers."},
	},
	domain.ThemeCozy: {
		Backgrounds: []string{
			"bg-gradient-to-b from-amber-100 via-orange-200 to-rose-300",
			"bg-gradient-to-br from-orange-100 via-amber-200 to-orange-300",
			"bg-[#2b1d16]",
		},
		Fonts:    []string{"font-serif", "font-sans"},
		Pets:     []string{"🧸", "🧶", "🧣", "🍵", "🕯️", "🧦"},
		Captions: []string{"Comfort is a warm cup and a slow song.", "Home is where the blanket is.", "Stay in. Stay warm."},
	},
}

var randomPool = unionPools()

// unionPools merges the base pool with every themed pool, keeping first-seen order.
func unionPools() Pool {
	pools := []Pool{basePool}
	for _, info := range domain.Themes {
		if p, ok := themePools[info.Theme]; ok {
			pools = append(pools, p)
		}
	}

	var out Pool
	seen := map[string]map[string]struct{}{}
	add := func(field string, dst *[]string, values []string) {
		if seen[field] == nil {
			seen[field] = map[string]struct{}{}
		}
		for _, v := range values {
			if _, dup := seen[field][v]; dup {
				continue
			}
			seen[field][v] = struct{}{}
			*dst = append(*dst, v)
		}
	}
	for _, p := range pools {
		add("bg", &out.Backgrounds, p.Backgrounds)
		add("font", &out.Fonts, p.Fonts)
		add("pet", &out.Pets, p.Pets)
		add("caption", &out.Captions, p.Captions)
	}
	return out
}

// Fallback is the fixed vibe built from the first entry of each base pool.
// It is used only when sampling itself fails.
func Fallback() domain.Vibe {
	return domain.Vibe{
		Background: basePool.Backgrounds[0],
		Font:       basePool.Fonts[0],
		Pet:        basePool.Pets[0],
		Quote:      basePool.Captions[0],
		Audio:      Audios[0],
		Theme:      domain.ThemeRandom,
	}
}

// PoolFor returns the pool for theme. Random draws from the union of all pools.
func PoolFor(theme domain.VibeTheme) (Pool, bool) {
	switch theme {
	case domain.ThemeRandom:
		return randomPool, true
	case domain.ThemeAesthetic, domain.ThemeMinimal, domain.ThemeVibrant, domain.ThemeNostalgic,
		domain.ThemeDreamy, domain.ThemeGlitch, domain.ThemeCozy:
		p, ok := themePools[theme]
		return p, ok
	default:
		return Pool{}, false
	}
}

// Validate checks that every theme resolves to a fully populated pool and
// that the audio pool is non-empty.
func Validate() error {
	for _, info := range domain.Themes {
		p, ok := PoolFor(info.Theme)
		if !ok {
			return fmt.Errorf("vibes: no pool for theme %q", info.Theme)
		}
		if err := p.validate(info.Theme); err != nil {
			return err
		}
	}
	if len(Audios) == 0 {
		return fmt.Errorf("vibes: audio pool is empty")
	}
	return nil
}
