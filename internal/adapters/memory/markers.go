// Package memory provides in-process implementations of store ports for
// local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

// Markers is an in-memory SessionMarkers. Markers live until process exit.
type Markers struct {
	mu   sync.RWMutex
	seen map[string]map[string]struct{}
}

var _ ports.SessionMarkers = (*Markers)(nil)

func NewMarkers() *Markers {
	return &Markers{seen: make(map[string]map[string]struct{})}
}

func (m *Markers) Mark(_ context.Context, sessionID, artifactID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.seen[sessionID]
	if !ok {
		ids = make(map[string]struct{})
		m.seen[sessionID] = ids
	}
	ids[artifactID] = struct{}{}
	return nil
}

func (m *Markers) Has(_ context.Context, sessionID, artifactID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seen[sessionID][artifactID]
	return ok, nil
}
