package journal

import (
	"strings"
	"unicode"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// Picker chooses one element of a non-empty slice.
type Picker interface {
	Pick(values []string) string
}

var petSongs = map[string][]string{
	// aesthetic
	"🌸":  {"Bloom by Troye Sivan", "Pastel by Moe Shop", "Strawberry Blond by Mitski", "Passionfruit by Drake"},
	"🦢":  {"Swan Lake by Tchaikovsky", "Featherweight by Fleet Foxes", "White Winter Hymnal by Fleet Foxes"},
	"🕊️": {"Free Bird by Lynyrd Skynyrd", "Weightless by Marconi Union", "Fly Me to the Moon by Frank Sinatra"},
	"🪷":  {"Lotus Flower by Radiohead", "Lotus Eater by Foster the People", "Water Lily by Liz Phair"},
	"🌷":  {"Sunflower by Post Malone", "Flower by Moby", "Wildflowers by Tom Petty"},
	"🦋":  {"Butterfly by Crazy Town", "Butterfly by BTS", "Blue Butterfly by Doja Cat"},
	"🦩":  {"Flamingo by Kero Kero Bonito", "Pink + White by Frank Ocean", "Pink Pony Club by Chappell Roan"},

	// minimal
	"◻️": {"Intro by The xx", "Midnight City by M83", "Teardrop by Massive Attack"},
	"◼️": {"Black by Pearl Jam", "Back to Black by Amy Winehouse", "Paint it Black by The Rolling Stones"},
	"⚪":  {"White Room by Cream", "White Ferrari by Frank Ocean", "White Winter Hymnal by Fleet Foxes"},
	"⚫":  {"Black Hole Sun by Soundgarden", "Black by Pearl Jam", "Blackbird by The Beatles"},
	"🔲":  {"Square One by Coldplay", "Squares by The Beta Band", "Four Corners by Staind"},
	"🔳":  {"Polaroid by Imagine Dragons", "Frames by Katie Melua", "Picture Frame by King Krule"},

	// vibrant
	"🌈": {"Somewhere Over the Rainbow by Israel Kamakawiwoʻole", "Colors by Black Pumas", "Rainbow by Kacey Musgraves"},
	"✨": {"Starlight by Muse", "Stardust by Nat King Cole", "Shooting Stars by Bag Raiders"},
	"💫": {"Stargazing by Travis Scott", "Space Song by Beach House", "Cosmic Girl by Jamiroquai"},
	"⭐": {"Starboy by The Weeknd", "Counting Stars by OneRepublic", "Yellow Stars by Dizzy Gillespie"},
	"🔆": {"Here Comes the Sun by The Beatles", "Walking on Sunshine by Katrina & The Waves", "Blinding Lights by The Weeknd"},
	"🎨": {"Colors by Halsey", "Art Deco by Lana Del Rey", "The Painter by Cody Jinks"},

	// nostalgic
	"📻":  {"Video Killed the Radio Star by The Buggles", "Radio Ga Ga by Queen", "Radio by Lana Del Rey"},
	"📺":  {"TV by Billie Eilish", "Television Rules the Nation by Daft Punk", "Kill Your Television by Ned's Atomic Dustbin"},
	"🎮":  {"Video Games by Lana Del Rey", "Play the Game by Queen", "The Game by Motorhead"},
	"💾":  {"Digital Love by Daft Punk", "Technologic by Daft Punk", "Computer Love by Kraftwerk"},
	"📼":  {"Videotape by Radiohead", "Video Tape by LCD Soundsystem", "Tape Song by The Kills"},
	"🕹️": {"Play the Game by Queen", "Pac-Man by Gorillaz", "Game Over by Falling In Reverse"},

	// dreamy
	"🌙":  {"Moon River by Frank Ocean", "Moonlight by XXXTentacion", "Moonage Daydream by David Bowie"},
	"☁️": {"Both Sides Now by Joni Mitchell", "Cloud 9 by Beach Bunny", "Cloudbusting by Kate Bush"},
	"🌌":  {"Space Oddity by David Bowie", "Andromeda by Gorillaz", "Supernova by Ansel Elgort"},
	"🔮":  {"Crystal Ball by Keane", "Future Nostalgia by Dua Lipa", "Visions by Grimes"},
	"🌠":  {"Shooting Stars by Bag Raiders", "Starlight by Muse", "Stellar by Incubus"},

	// glitch
	"👾":  {"Digital Love by Daft Punk", "Glitch by Martin Garrix", "Technologic by Daft Punk"},
	"🤖":  {"Robot Rock by Daft Punk", "Mr. Roboto by Styx", "Paranoid Android by Radiohead"},
	"💻":  {"Computer Love by Kraftwerk", "Computer Blue by Prince", "Digital by Joy Division"},
	"🖥️": {"Digital by Joy Division", "Computer World by Kraftwerk", "Digital Love by Daft Punk"},
	"📱":  {"Hotline Bling by Drake", "Phone Down by Erykah Badu", "Telephone by Lady Gaga"},
	"🎛️": {"Da Funk by Daft Punk", "Around the World by Daft Punk", "Harder Better Faster Stronger by Daft Punk"},

	// cozy
	"🧸":  {"Teddy Bear by STAYC", "Teddy Picker by Arctic Monkeys", "Teddy Swims by Bed on Fire"},
	"🧶":  {"Sweater Weather by The Neighbourhood", "Cardigan by Taylor Swift", "Wool by Ambient Music Therapy"},
	"🧣":  {"All Too Well by Taylor Swift", "Red Scarf by Ginger Root", "Wrapped Around Your Finger by The Police"},
	"🍵":  {"Cup of Tea by Kacey Musgraves", "Coffee by Beabadoobee", "Tea for Two by Doris Day"},
	"🕯️": {"Candle in the Wind by Elton John", "Light My Fire by The Doors", "Burn by Ellie Goulding"},
	"🧦":  {"Red Socks Pugie by Foals", "Socks by Why Don't We", "Blue Socks by Ace Wilder"},
}

var categoryPets = map[domain.VibeTheme][]string{
	domain.ThemeAesthetic: {"🌸", "🦢", "🕊️", "🪷", "🌷", "🦋", "🦩"},
	domain.ThemeMinimal:   {"◻️", "◼️", "⚪", "⚫", "🔲", "🔳"},
	domain.ThemeVibrant:   {"🌈", "✨", "💫", "⭐", "🔆", "🎨"},
	domain.ThemeNostalgic: {"📻", "📺", "🎮", "💾", "📼", "🕹️"},
	domain.ThemeDreamy:    {"🌙", "☁️", "🌌", "🔮", "🌠"},
	domain.ThemeGlitch:    {"👾", "🤖", "💻", "🖥️", "📱", "🎛️"},
	domain.ThemeCozy:      {"🧸", "🧶", "🧣", "🍵", "🕯️", "🧦"},
}

// DefaultSongs is the generic list used when no category can be derived.
var DefaultSongs = []string{
	"Midnight City by M83",
	"Dreams by Fleetwood Mac",
	"Blinding Lights by The Weeknd",
	"Redbone by Childish Gambino",
	"Sweater Weather by The Neighbourhood",
	"Lofi Beats to Study/Relax to",
	"Space Song by Beach House",
	"Resonance by HOME",
	"The Less I Know The Better by Tame Impala",
}

type keywordRule struct {
	category domain.VibeTheme
	keywords []string
}

// Rules are evaluated in order; the first rule with a matching keyword wins.
// Alphanumeric keywords match whole words only; keywords with other
// characters ("[#") match anywhere in the text.
var backgroundRules = []keywordRule{
	{domain.ThemeAesthetic, []string{"pink", "purple", "rose", "fuchsia"}},
	{domain.ThemeMinimal, []string{"[#", "gray", "black"}},
	{domain.ThemeVibrant, []string{"green", "blue", "yellow", "teal"}},
	{domain.ThemeNostalgic, []string{"amber", "orange"}},
	{domain.ThemeDreamy, []string{"indigo", "slate"}},
}

var quoteRules = []keywordRule{
	{domain.ThemeAesthetic, []string{"bloom", "delicate", "soft"}},
	{domain.ThemeMinimal, []string{"less", "simple", "silence"}},
	{domain.ThemeVibrant, []string{"color", "colors", "vibrant", "joy"}},
	{domain.ThemeNostalgic, []string{"remember", "memory", "memories", "old"}},
	{domain.ThemeDreamy, []string{"dream", "dreams", "star", "stars", "cosmos"}},
	{domain.ThemeGlitch, []string{"system", "digital", "pixel", "pixels"}},
	{domain.ThemeCozy, []string{"comfort", "warm", "home"}},
}

func matchCategory(text string, rules []keywordRule) (domain.VibeTheme, bool) {
	lowered := strings.ToLower(text)
	words := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(lowered, isWordSeparator) {
		words[w] = struct{}{}
	}
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.IndexFunc(kw, isWordSeparator) >= 0 {
				if strings.Contains(lowered, kw) {
					return rule.category, true
				}
				continue
			}
			if _, ok := words[kw]; ok {
				return rule.category, true
			}
		}
	}
	return "", false
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// BackgroundCategory derives a category from background style keywords.
func BackgroundCategory(bg string) (domain.VibeTheme, bool) {
	return matchCategory(bg, backgroundRules)
}

// QuoteCategory derives a category from quote keywords.
func QuoteCategory(quote string) (domain.VibeTheme, bool) {
	return matchCategory(quote, quoteRules)
}

// CategorySongs returns every curated song for the pets of category.
func CategorySongs(category domain.VibeTheme) []string {
	var songs []string
	seen := map[string]struct{}{}
	for _, pet := range categoryPets[category] {
		for _, song := range petSongs[pet] {
			if _, dup := seen[song]; dup {
				continue
			}
			seen[song] = struct{}{}
			songs = append(songs, song)
		}
	}
	return songs
}

// RecommendSong picks a song query for v when the model did not suggest one.
// Order: curated pet songs, background category, quote category, generic list.
func RecommendSong(v domain.Vibe, picker Picker) string {
	if songs, ok := petSongs[v.Pet]; ok {
		return picker.Pick(songs)
	}
	if category, ok := BackgroundCategory(v.Background); ok {
		if songs := CategorySongs(category); len(songs) > 0 {
			return picker.Pick(songs)
		}
	}
	if category, ok := QuoteCategory(v.Quote); ok {
		if songs := CategorySongs(category); len(songs) > 0 {
			return picker.Pick(songs)
		}
	}
	return picker.Pick(DefaultSongs)
}
