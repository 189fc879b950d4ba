package spotify

import "strings"

// ScoreResult returns a similarity score in [0,1] between two artist+title pairs.
func ScoreResult(targetArtist string, targetTitle string, actualArtist string, actualTitle string) float64 {
	target := Normalize(strings.TrimSpace(targetArtist + " " + targetTitle))
	actual := Normalize(strings.TrimSpace(actualArtist + " " + actualTitle))
	if target == "" || actual == "" {
		return 0
	}

	return similarity(target, actual)
}

// splitQuery splits a "title by artist" query at its last " by ".
func splitQuery(query string) (title string, artist string, ok bool) {
	idx := strings.LastIndex(strings.ToLower(query), " by ")
	if idx <= 0 {
		return query, "", false
	}
	title = strings.TrimSpace(query[:idx])
	artist = strings.TrimSpace(query[idx+4:])
	if title == "" || artist == "" {
		return query, "", false
	}
	return title, artist, true
}

// queryConfidence scores how well the matched track fits the song query.
func queryConfidence(query string, track spotifyTrack) float64 {
	if title, artist, ok := splitQuery(query); ok {
		return ScoreResult(artist, title, firstArtist(track), track.Name)
	}
	candidate := Normalize(track.Name)
	target := Normalize(query)
	if candidate == "" || target == "" {
		return 0
	}
	return similarity(target, candidate)
}

func similarity(a string, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(a string, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+cost,
			)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
