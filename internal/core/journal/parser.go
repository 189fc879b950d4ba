package journal

import (
	"regexp"
	"strings"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

var (
	thinkBlock    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkDangling = regexp.MustCompile(`(?is)</?think>`)
	titleLine     = regexp.MustCompile(`(?im)^[ \t>]*\**[ \t]*title[ \t]*:[ \t]*\**[ \t]*(.*?)[ \t]*\**[ \t]*$`)
	bodyMarker    = regexp.MustCompile(`(?im)^[ \t>]*\**[ \t]*(?:journal[ \t]+)?entry[ \t]*:[ \t]*\**[ \t]*`)
	songLine      = regexp.MustCompile(`(?im)^[ \t>]*\**[ \t]*song(?:[ \t]+recommendation)?[ \t]*:[ \t]*\**[ \t]*(.*?)[ \t]*\**[ \t]*$`)
	emphasis      = regexp.MustCompile(`\*\*|__`)
	blockquote    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	extraNewlines = regexp.MustCompile(`\n{3,}`)
)

// Parse extracts a JournalEntry from raw model output. It never fails:
// missing markers fall back to the placeholder title, the whole text as body
// and the fallback song query.
func Parse(raw string) domain.JournalEntry {
	return parse(raw).entry
}

// ParseWithVibe behaves like Parse, but when the output carries no song marker
// the song query is recommended from the vibe instead of the fixed fallback.
func ParseWithVibe(raw string, v domain.Vibe, picker Picker) domain.JournalEntry {
	res := parse(raw)
	if !res.empty && !res.hasSong && picker != nil {
		res.entry.SongQuery = RecommendSong(v, picker)
	}
	return res.entry
}

// parsed is the result of parse. empty is set when nothing but reasoning or
// whitespace was left to read, in which case entry is the full default.
type parsed struct {
	entry   domain.JournalEntry
	hasSong bool
	empty   bool
}

func parse(raw string) parsed {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = thinkBlock.ReplaceAllString(text, "")
	text = thinkDangling.ReplaceAllString(text, "")
	if strings.TrimSpace(text) == "" {
		return parsed{entry: domain.DefaultJournalEntry(), empty: true}
	}

	entry := domain.JournalEntry{
		Title:     domain.PlaceholderTitle,
		SongQuery: domain.FallbackSongQuery,
	}

	if m := titleLine.FindStringSubmatch(text); m != nil {
		if title := clean(m[1]); title != "" {
			entry.Title = title
		}
	}

	hasSong := false
	if m := songLine.FindStringSubmatch(text); m != nil {
		if song := clean(m[1]); song != "" {
			entry.SongQuery = song
			hasSong = true
		}
	}

	var body string
	if loc := bodyMarker.FindStringIndex(text); loc != nil {
		body = text[loc[1]:]
		if songLoc := songLine.FindStringIndex(body); songLoc != nil {
			body = body[:songLoc[0]]
		}
		body = titleLine.ReplaceAllString(body, "")
	} else {
		body = titleLine.ReplaceAllString(text, "")
		body = songLine.ReplaceAllString(body, "")
	}

	entry.Body = clean(body)
	if entry.Body == "" {
		entry.Body = domain.FallbackBody
	}
	return parsed{entry: entry, hasSong: hasSong}
}

func clean(s string) string {
	s = emphasis.ReplaceAllString(s, "")
	s = blockquote.ReplaceAllString(s, "")
	s = extraNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
