package domain

import "time"

// Identity is an authenticated user as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Creator is the identity snapshot attached to a claimed artifact.
type Creator struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// AsCreator snapshots the identity for attachment to an artifact.
func (i Identity) AsCreator() Creator {
	return Creator{
		UID:         i.UID,
		DisplayName: i.DisplayName,
		Email:       i.Email,
		PhotoURL:    i.PhotoURL,
	}
}

// VibeArtifact is the persisted unit: a journal entry with its originating vibe.
//
// Zero values:
//   - ID: "" until the store assigns one on first write
//   - TrackURL: "" when no catalog match was found
//   - TrackInfo: nil until metadata enrichment runs
//   - Creator: nil for anonymous artifacts; set at most once
type VibeArtifact struct {
	ID        string       `json:"id"`
	Vibe      Vibe         `json:"vibe"`
	Journal   JournalEntry `json:"journal"`
	TrackURL  string       `json:"trackUrl,omitempty"`
	Title     string       `json:"title,omitempty"`
	TrackInfo *TrackInfo   `json:"trackInfo,omitempty"`
	Creator   *Creator     `json:"creator"`
	CreatedAt time.Time    `json:"createdAt"`
}

// UserVibeLink records that an artifact belongs to an identity's collection.
type UserVibeLink struct {
	UID       string    `json:"uid"`
	VibeID    string    `json:"vibeId"`
	CreatedAt time.Time `json:"createdAt"`
}
