package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// --- Mocks ---

// mockSampler returns a fixed vibe per theme and always picks the first candidate.
type mockSampler struct {
	vibe *domain.Vibe
}

func (m *mockSampler) Sample(theme domain.VibeTheme) (domain.Vibe, error) {
	if !theme.Valid() {
		return domain.Vibe{}, domain.ErrInvalidTheme
	}
	if m.vibe != nil {
		v := *m.vibe
		v.Theme = theme
		return v, nil
	}
	return domain.Vibe{
		Background: "bg-" + string(theme),
		Font:       "font-serif",
		Pet:        "🧸",
		Quote:      "quote for " + string(theme),
		Audio:      "/assets/rain.mp3",
		Theme:      theme,
	}, nil
}

func (m *mockSampler) Pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// textReply scripts one Generate call. When wait is set the call blocks on
// it and ignores cancellation, like a late response already on the wire.
type textReply struct {
	raw     string
	err     error
	wait    <-chan struct{}
	started chan<- struct{}
}

type mockText struct {
	mu      sync.Mutex
	replies []textReply
	prompts []string
}

func (m *mockText) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	idx := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	var r textReply
	if idx < len(m.replies) {
		r = m.replies[idx]
	} else if len(m.replies) > 0 {
		r = m.replies[len(m.replies)-1]
	}
	m.mu.Unlock()

	if r.started != nil {
		close(r.started)
	}
	if r.wait != nil {
		<-r.wait
	}
	return r.raw, r.err
}

func (m *mockText) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockCatalog struct {
	mu      sync.Mutex
	queries []string
	miss    bool
}

func (m *mockCatalog) ResolveTrack(ctx context.Context, query string) *domain.TrackRef {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if ctx.Err() != nil || m.miss {
		return nil
	}
	slug := strings.ReplaceAll(strings.ToLower(query), " ", "-")
	return &domain.TrackRef{ID: slug, URL: "https://open.spotify.com/track/" + slug, Name: query}
}

func (m *mockCatalog) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// mockStore is an in-memory ArtifactStore with injectable failures.
type mockStore struct {
	mu        sync.Mutex
	artifacts map[string]domain.VibeArtifact
	links     map[string]domain.UserVibeLink
	nextID    int

	createErr error
	getErr    error
	linkErr   error
	putErr    error
}

func newMockStore() *mockStore {
	return &mockStore{
		artifacts: map[string]domain.VibeArtifact{},
		links:     map[string]domain.UserVibeLink{},
	}
}

func linkKey(uid, vibeID string) string { return uid + "/" + vibeID }

func (m *mockStore) CreateArtifact(ctx context.Context, a domain.VibeArtifact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	a.ID = fmt.Sprintf("art-%d", m.nextID)
	m.artifacts[a.ID] = a
	return a.ID, nil
}

func (m *mockStore) GetArtifact(ctx context.Context, id string) (domain.VibeArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.VibeArtifact{}, m.getErr
	}
	a, ok := m.artifacts[id]
	if !ok {
		return domain.VibeArtifact{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockStore) SetCreatorIfAbsent(ctx context.Context, id string, creator domain.Creator) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if a.Creator != nil {
		return false, nil
	}
	a.Creator = &creator
	m.artifacts[id] = a
	return true, nil
}

func (m *mockStore) UpdateTrackInfo(ctx context.Context, id string, info domain.TrackInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.TrackInfo = &info
	m.artifacts[id] = a
	return nil
}

func (m *mockStore) PutLink(ctx context.Context, link domain.UserVibeLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	key := linkKey(link.UID, link.VibeID)
	if _, ok := m.links[key]; !ok {
		m.links[key] = link
	}
	return nil
}

func (m *mockStore) LinkExists(ctx context.Context, uid, vibeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.linkErr != nil {
		return false, m.linkErr
	}
	_, ok := m.links[linkKey(uid, vibeID)]
	return ok, nil
}

func (m *mockStore) ListLinks(ctx context.Context, uid string) ([]domain.UserVibeLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UserVibeLink
	for _, l := range m.links {
		if l.UID == uid {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) linkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links)
}

type mockMarkers struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *mockMarkers) Mark(ctx context.Context, sessionID, artifactID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	m.seen[sessionID+"/"+artifactID] = true
	return nil
}

func (m *mockMarkers) Has(ctx context.Context, sessionID, artifactID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[sessionID+"/"+artifactID], nil
}

type identityKey struct{}

func withUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, identityKey{}, domain.Identity{UID: uid, DisplayName: strings.ToUpper(uid)})
}

// mockIdentity reads the identity placed by withUser.
type mockIdentity struct{}

func (mockIdentity) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

type mockQueue struct {
	mu   sync.Mutex
	jobs []string
}

func (m *mockQueue) Enqueue(artifactID, trackURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, artifactID+" "+trackURL)
	return true
}

type mockRecorder struct {
	mu          sync.Mutex
	generations map[string]int
	failures    map[string]int
	saved       int
	links       map[string]int
	claims      map[string]int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		generations: map[string]int{},
		failures:    map[string]int{},
		links:       map[string]int{},
		claims:      map[string]int{},
	}
}

func (m *mockRecorder) GenerationFinished(theme, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[theme+"/"+outcome]++
}

func (m *mockRecorder) UpstreamFailure(collaborator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[collaborator]++
}

func (m *mockRecorder) ArtifactSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
}

func (m *mockRecorder) LinkRecorded(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[result]++
}

func (m *mockRecorder) ClaimRecorded(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims[result]++
}
