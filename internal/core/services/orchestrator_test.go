package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/journal"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
	"github.com/ewilliams-labs/aestheticify/internal/core/vibes"
)

const fogResponse = "**Title:** Fog\n**Journal Entry:** The fox waits in static silence."

func TestOrchestrator_Generate(t *testing.T) {
	tests := []struct {
		name         string
		text         *mockText
		catalog      *mockCatalog
		wantJournal  domain.JournalEntry
		wantTrack    bool
		wantFailures int
	}{
		{
			name:    "complete with model song",
			text:    &mockText{replies: []textReply{{raw: fogResponse + "\n**Song:** Intro by The xx"}}},
			catalog: &mockCatalog{},
			wantJournal: domain.JournalEntry{
				Title:     "Fog",
				Body:      "The fox waits in static silence.",
				SongQuery: "Intro by The xx",
			},
			wantTrack: true,
		},
		{
			name:    "missing song marker uses curated pet songs",
			text:    &mockText{replies: []textReply{{raw: fogResponse}}},
			catalog: &mockCatalog{},
			wantJournal: domain.JournalEntry{
				Title:     "Fog",
				Body:      "The fox waits in static silence.",
				SongQuery: "Teddy Bear by STAYC",
			},
			wantTrack: true,
		},
		{
			name:         "rejected text generation falls back",
			text:         &mockText{replies: []textReply{{err: fmt.Errorf("groq: %w", &ports.UpstreamError{Collaborator: "textgen", StatusCode: 503})}}},
			catalog:      &mockCatalog{},
			wantJournal:  domain.DefaultJournalEntry(),
			wantTrack:    true,
			wantFailures: 1,
		},
		{
			name:         "transport failure falls back",
			text:         &mockText{replies: []textReply{{err: ports.ErrTransport}}},
			catalog:      &mockCatalog{},
			wantJournal:  domain.DefaultJournalEntry(),
			wantTrack:    true,
			wantFailures: 1,
		},
		{
			name:    "no track still completes",
			text:    &mockText{replies: []textReply{{raw: fogResponse}}},
			catalog: &mockCatalog{miss: true},
			wantJournal: domain.JournalEntry{
				Title:     "Fog",
				Body:      "The fox waits in static silence.",
				SongQuery: "Teddy Bear by STAYC",
			},
			wantTrack: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newMockRecorder()
			orch := NewOrchestrator(&mockSampler{}, tt.text, tt.catalog, rec, zerolog.Nop())

			var states []State
			got := orch.Generate(context.Background(), domain.ThemeCozy, func(s Snapshot) bool {
				states = append(states, s.State)
				return true
			})

			assert.Equal(t, []State{StateSampling, StateAwaitingText, StateAwaitingTrack, StateComplete}, states)
			assert.Equal(t, StateComplete, got.State)
			assert.False(t, got.Loading)
			require.NotNil(t, got.Journal)
			assert.Equal(t, tt.wantJournal, *got.Journal)
			assert.Equal(t, []string{tt.wantJournal.SongQuery}, tt.catalog.seen())
			require.NotNil(t, got.Vibe)
			if tt.wantTrack {
				require.NotNil(t, got.Track)
				assert.Equal(t, got.Track, got.Vibe.Track)
			} else {
				assert.Nil(t, got.Track)
				assert.Nil(t, got.Vibe.Track)
			}
			assert.Equal(t, tt.wantFailures, rec.failures["textgen"])
			assert.Equal(t, 1, rec.generations["cozy/complete"])
		})
	}
}

func TestOrchestrator_GenerateUnmappedPet(t *testing.T) {
	vibe := domain.Vibe{Pet: "🦊", Font: "font-mono", Background: "bg-black", Quote: "Pause. Breathe. Drift."}
	text := &mockText{replies: []textReply{{raw: fogResponse}}}
	orch := NewOrchestrator(&mockSampler{vibe: &vibe}, text, &mockCatalog{}, nil, zerolog.Nop())

	got := orch.Generate(context.Background(), domain.ThemeMinimal, nil)

	require.Len(t, text.prompts, 1)
	assert.Equal(t, journal.BuildPrompt(domain.Vibe{Pet: "🦊", Font: "font-mono", Background: "bg-black", Quote: "Pause. Breathe. Drift.", Theme: domain.ThemeMinimal}), text.prompts[0])
	require.NotNil(t, got.Journal)
	assert.Equal(t, "Fog", got.Journal.Title)
	assert.Equal(t, "The fox waits in static silence.", got.Journal.Body)
	assert.Equal(t, journal.CategorySongs(domain.ThemeMinimal)[0], got.Journal.SongQuery)
}

func TestOrchestrator_GenerateCancelled(t *testing.T) {
	t.Run("text generation reports cancellation", func(t *testing.T) {
		catalog := &mockCatalog{}
		rec := newMockRecorder()
		text := &mockText{replies: []textReply{{err: fmt.Errorf("groq: %w", ports.ErrCanceled)}}}
		orch := NewOrchestrator(&mockSampler{}, text, catalog, rec, zerolog.Nop())

		got := orch.Generate(context.Background(), domain.ThemeDreamy, nil)

		assert.Equal(t, StateCancelled, got.State)
		assert.False(t, got.Loading)
		assert.Nil(t, got.Journal)
		assert.Empty(t, catalog.seen())
		assert.Equal(t, 0, rec.failures["textgen"])
		assert.Equal(t, 1, rec.generations["dreamy/cancelled"])
	})

	t.Run("context already done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		text := &mockText{}
		orch := NewOrchestrator(&mockSampler{}, text, &mockCatalog{}, nil, zerolog.Nop())

		got := orch.Generate(ctx, domain.ThemeDreamy, nil)

		assert.Equal(t, StateCancelled, got.State)
		assert.Equal(t, 0, text.calls())
	})

	t.Run("emit reports superseded", func(t *testing.T) {
		text := &mockText{replies: []textReply{{raw: fogResponse}}}
		orch := NewOrchestrator(&mockSampler{}, text, &mockCatalog{}, nil, zerolog.Nop())

		got := orch.Generate(context.Background(), domain.ThemeDreamy, func(s Snapshot) bool {
			return s.State != StateAwaitingText
		})

		assert.Equal(t, StateCancelled, got.State)
		assert.Equal(t, 0, text.calls())
	})

	t.Run("late text response after cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		started := make(chan struct{})
		catalog := &mockCatalog{}
		text := &mockText{replies: []textReply{{raw: fogResponse, wait: release, started: started}}}
		orch := NewOrchestrator(&mockSampler{}, text, catalog, nil, zerolog.Nop())

		done := make(chan Snapshot, 1)
		go func() { done <- orch.Generate(ctx, domain.ThemeDreamy, nil) }()

		<-started
		cancel()
		close(release)
		got := <-done

		assert.Equal(t, StateCancelled, got.State)
		assert.Nil(t, got.Journal)
		assert.Empty(t, catalog.seen())
	})
}

func TestOrchestrator_InvalidThemeFallsBackToRandom(t *testing.T) {
	orch := NewOrchestrator(&mockSampler{}, &mockText{replies: []textReply{{raw: fogResponse}}}, &mockCatalog{}, nil, zerolog.Nop())

	got := orch.Generate(context.Background(), domain.VibeTheme("neon"), nil)

	assert.Equal(t, StateComplete, got.State)
	require.NotNil(t, got.Vibe)
	assert.Equal(t, domain.ThemeRandom, got.Vibe.Theme)
}

// brokenSampler fails every draw but still picks.
type brokenSampler struct{ mockSampler }

func (brokenSampler) Sample(domain.VibeTheme) (domain.Vibe, error) {
	return domain.Vibe{}, fmt.Errorf("sampler: %w", domain.ErrInvalidTheme)
}

func TestOrchestrator_SamplerFailureUsesFallbackVibe(t *testing.T) {
	text := &mockText{replies: []textReply{{raw: fogResponse}}}
	orch := NewOrchestrator(&brokenSampler{}, text, &mockCatalog{}, nil, zerolog.Nop())

	got := orch.Generate(context.Background(), domain.ThemeCozy, nil)

	assert.Equal(t, StateComplete, got.State)
	require.NotNil(t, got.Vibe)
	want := vibes.Fallback()
	assert.Equal(t, want.Pet, got.Vibe.Pet)
	assert.Equal(t, want.Background, got.Vibe.Background)
	assert.Equal(t, want.Quote, got.Vibe.Quote)
	require.Len(t, text.prompts, 1)
	assert.Contains(t, text.prompts[0], "- Pet: "+want.Pet)
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateComplete.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.False(t, StateAwaitingText.Terminal())
}
