package worker

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestedVolume(t *testing.T) {
	tests := []struct {
		name   string
		energy float64
		want   float64
	}{
		{"silent", 0, DefaultVolume},
		{"target", targetEnergy, DefaultVolume},
		{"quiet clamps high", 0.01, maxVolume},
		{"loud clamps low", 0.9, minVolume},
		{"between", 0.125, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SuggestedVolume(tt.energy), 1e-9)
		})
	}
}

func TestAnalyzeEnergy_InvalidData(t *testing.T) {
	_, err := analyzeEnergy(bytes.NewReader([]byte("not an mp3")))
	assert.Error(t, err)
}

func TestAnalyzeAmbient(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rain.mp3"), []byte("loud"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pixel.mp3"), []byte("broken"), 0o600))

	original := AnalyzeEnergyFunc
	t.Cleanup(func() { AnalyzeEnergyFunc = original })
	AnalyzeEnergyFunc = func(r io.Reader) (float64, error) {
		data, _ := io.ReadAll(r)
		if string(data) == "loud" {
			return 0.25, nil
		}
		return 0, errors.New("bad frame")
	}

	got := AnalyzeAmbient(dir, []string{"/assets/rain.mp3", "/assets/pixel.mp3", "/assets/missing.mp3"}, zerolog.Nop())

	require.Len(t, got, 3)
	assert.Equal(t, "/assets/rain.mp3", got[0].Path)
	assert.InDelta(t, 0.25, got[0].Energy, 1e-9)
	assert.InDelta(t, minVolume, got[0].Volume, 1e-9)
	assert.Empty(t, got[0].Error)

	assert.Equal(t, DefaultVolume, got[1].Volume)
	assert.Contains(t, got[1].Error, "bad frame")

	assert.Equal(t, DefaultVolume, got[2].Volume)
	assert.NotEmpty(t, got[2].Error)
}

func TestDefaultAmbient(t *testing.T) {
	got := DefaultAmbient([]string{"/assets/rain.mp3"})
	assert.Equal(t, []AmbientLevel{{Path: "/assets/rain.mp3", Volume: DefaultVolume}}, got)
}
