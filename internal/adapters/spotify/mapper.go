package spotify

import "github.com/ewilliams-labs/aestheticify/internal/core/domain"

func firstArtist(st spotifyTrack) string {
	if len(st.Artists) == 0 {
		return ""
	}
	return st.Artists[0].Name
}

func albumArt(st spotifyTrack) string {
	if len(st.Album.Images) == 0 {
		return ""
	}
	return st.Album.Images[0].URL
}

func mapTrackRef(st spotifyTrack) domain.TrackRef {
	return domain.TrackRef{
		ID:       st.ID,
		URL:      st.ExternalURLs.Spotify,
		Name:     st.Name,
		Artist:   firstArtist(st),
		AlbumArt: albumArt(st),
	}
}

func mapTrackInfo(st spotifyTrack) domain.TrackInfo {
	return domain.TrackInfo{
		Name:     st.Name,
		Artist:   firstArtist(st),
		AlbumArt: albumArt(st),
	}
}
