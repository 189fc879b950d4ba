package worker

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog"
)

const (
	DefaultVolume = 0.5
	minVolume     = 0.2
	maxVolume     = 0.8

	// targetEnergy is the RMS energy that plays at DefaultVolume.
	targetEnergy = 0.1
)

// AmbientLevel is the analysis result for one pooled ambient track.
type AmbientLevel struct {
	Path   string  `json:"path"`
	Energy float64 `json:"energy"`
	Volume float64 `json:"volume"`
	Error  string  `json:"error,omitempty"`
}

func analyzeEnergy(r io.Reader) (float64, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("ambient decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			for i := 0; i+1 < n; i += 2 {
				sample := int16(buf[i]) | int16(buf[i+1])<<8
				val := float64(sample)
				sumSquares += val * val
				count++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("ambient read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("ambient track contains no samples")
	}

	rms := math.Sqrt(sumSquares / count)
	return clamp(rms/32768.0, 0, 1), nil
}

// AnalyzeEnergyFunc allows tests to override the decoder.
var AnalyzeEnergyFunc = analyzeEnergy

// SuggestedVolume scales playback inversely with energy so quiet and loud
// tracks land at a similar loudness.
func SuggestedVolume(energy float64) float64 {
	if energy <= 0 || math.IsNaN(energy) {
		return DefaultVolume
	}
	return clamp(DefaultVolume*targetEnergy/energy, minVolume, maxVolume)
}

// AnalyzeAmbient decodes each pooled audio path from dir (matched by file
// name) and returns its energy and suggested volume. Tracks that cannot be
// read keep DefaultVolume and carry the error.
func AnalyzeAmbient(dir string, paths []string, logger zerolog.Logger) []AmbientLevel {
	levels := make([]AmbientLevel, 0, len(paths))
	for _, p := range paths {
		level := AmbientLevel{Path: p, Volume: DefaultVolume}
		energy, err := analyzeFile(filepath.Join(dir, filepath.Base(p)))
		if err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("worker: ambient analysis failed")
			level.Error = err.Error()
		} else {
			level.Energy = energy
			level.Volume = SuggestedVolume(energy)
			logger.Info().Str("path", p).Float64("energy", energy).Float64("volume", level.Volume).Msg("worker: ambient track analyzed")
		}
		levels = append(levels, level)
	}
	return levels
}

// DefaultAmbient reports every path at DefaultVolume without decoding.
func DefaultAmbient(paths []string) []AmbientLevel {
	levels := make([]AmbientLevel, 0, len(paths))
	for _, p := range paths {
		levels = append(levels, AmbientLevel{Path: p, Volume: DefaultVolume})
	}
	return levels
}

func analyzeFile(path string) (float64, error) {
	// #nosec G304 -- path is built from the configured asset dir and a fixed pool entry
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("ambient open failed: %w", err)
	}
	defer f.Close()
	return AnalyzeEnergyFunc(f)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
