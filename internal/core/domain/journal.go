package domain

const (
	PlaceholderTitle  = "Untitled Dream"
	FallbackBody      = "The dream faded before it was written."
	FallbackSongQuery = "chill lofi"
)

// JournalEntry is the structured form of a generated journal response.
type JournalEntry struct {
	Title     string `json:"title"`
	Body      string `json:"entry"`
	SongQuery string `json:"songQuery"`
}

// DefaultJournalEntry is used whenever generation yields nothing usable.
func DefaultJournalEntry() JournalEntry {
	return JournalEntry{
		Title:     PlaceholderTitle,
		Body:      FallbackBody,
		SongQuery: FallbackSongQuery,
	}
}
