package domain

// TrackRef is the catalog match resolved for a song query.
type TrackRef struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	AlbumArt   string  `json:"albumArt,omitempty"`
	Confidence float64 `json:"confidence"` // similarity between query and match, 0 when unscored
}

// TrackInfo is the display metadata stored alongside an artifact.
type TrackInfo struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"albumArt,omitempty"`
}
