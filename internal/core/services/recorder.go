package services

// Recorder receives service-level counters. Implementations must be safe for
// concurrent use.
type Recorder interface {
	GenerationFinished(theme string, outcome string)
	UpstreamFailure(collaborator string)
	ArtifactSaved()
	LinkRecorded(result string)
	ClaimRecorded(result string)
}

type nopRecorder struct{}

func (nopRecorder) GenerationFinished(string, string) {}
func (nopRecorder) UpstreamFailure(string)            {}
func (nopRecorder) ArtifactSaved()                    {}
func (nopRecorder) LinkRecorded(string)               {}
func (nopRecorder) ClaimRecorded(string)              {}

// EnrichmentQueue accepts background track-metadata jobs.
type EnrichmentQueue interface {
	Enqueue(artifactID, trackURL string) bool
}
