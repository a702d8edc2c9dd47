// Package integration provides sources of water-quality samples
package integration

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abelzeko/water-advisor/internal/entities"
	"github.com/abelzeko/water-advisor/internal/logger"
)

// HoursPerSeries is the number of hourly samples in a generated series
const HoursPerSeries = 24

// ErrLocationNotFound is returned when a location id is unknown to the source
var ErrLocationNotFound = errors.New("location not found")

// SampleSource supplies monitoring locations and their sample series
type SampleSource interface {
	Locations(ctx context.Context) ([]entities.Location, error)
	Samples(ctx context.Context, locationID string) ([]entities.Sample, error)
}

// Regenerator is implemented by sources that can draw a fresh snapshot
type Regenerator interface {
	Regenerate()
}

// DefaultLocations are the monitoring points served by the mock source
var DefaultLocations = []entities.Location{
	{ID: "upstream", Name: "Upstream Intake", Status: entities.StatusGood},
	{ID: "bridge", Name: "City Bridge", Status: entities.StatusModerate},
	{ID: "outfall", Name: "Industrial Outfall", Status: entities.StatusPoor},
	{ID: "confluence", Name: "Confluence", Status: entities.StatusModerate},
}

// Range is the uniform interval a mock parameter is drawn from
type Range struct {
	Min, Max float64
}

func (r Range) draw(rnd *rand.Rand) float64 {
	return r.Min + rnd.Float64()*(r.Max-r.Min)
}

// Ranges used by the mock generator
var (
	TurbidityRange       = Range{5, 50}
	PHRange              = Range{6.0, 9.0}
	DissolvedOxygenRange = Range{3, 9}
	BODRange             = Range{0.5, 5}
)

// MockSource generates random hourly series for a fixed set of locations
type MockSource struct {
	mu        sync.RWMutex
	locations []entities.Location
	series    map[string][]entities.Sample
	rnd       *rand.Rand
	log       zerolog.Logger
}

// NewMockSource creates a mock source seeded with seed and draws the first snapshot.
// A nil locations slice uses DefaultLocations.
func NewMockSource(seed int64, locations []entities.Location) *MockSource {
	if locations == nil {
		locations = DefaultLocations
	}
	ms := &MockSource{
		locations: append([]entities.Location(nil), locations...),
		rnd:       rand.New(rand.NewSource(seed)),
		log:       logger.WithComponent("mock_source"),
	}
	ms.Regenerate()
	return ms
}

// Regenerate draws a fresh series for every location
func (ms *MockSource) Regenerate() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	series := make(map[string][]entities.Sample, len(ms.locations))
	for _, loc := range ms.locations {
		samples := make([]entities.Sample, HoursPerSeries)
		for hour := range samples {
			samples[hour] = entities.Sample{
				Hour:            hour,
				Turbidity:       TurbidityRange.draw(ms.rnd),
				PH:              PHRange.draw(ms.rnd),
				DissolvedOxygen: DissolvedOxygenRange.draw(ms.rnd),
				BOD:             BODRange.draw(ms.rnd),
			}
		}
		series[loc.ID] = samples
	}
	ms.series = series

	ms.log.Debug().Int("locations", len(ms.locations)).Msg("generated mock samples")
}

// Locations returns the configured locations
func (ms *MockSource) Locations(ctx context.Context) ([]entities.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return append([]entities.Location(nil), ms.locations...), nil
}

// Samples returns a copy of the current series for a location
func (ms *MockSource) Samples(ctx context.Context, locationID string) ([]entities.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	samples, ok := ms.series[locationID]
	if !ok {
		return nil, ErrLocationNotFound
	}
	return append([]entities.Sample(nil), samples...), nil
}

// StaticSource serves fixed, caller-provided series
type StaticSource struct {
	locations []entities.Location
	series    map[string][]entities.Sample
}

// NewStaticSource creates a source over the given locations and series keyed by location id
func NewStaticSource(locations []entities.Location, series map[string][]entities.Sample) *StaticSource {
	return &StaticSource{locations: locations, series: series}
}

// Locations returns the configured locations
func (ss *StaticSource) Locations(ctx context.Context) ([]entities.Location, error) {
	return append([]entities.Location(nil), ss.locations...), nil
}

// Samples returns the series for a location; a known location without data yields an empty series
func (ss *StaticSource) Samples(ctx context.Context, locationID string) ([]entities.Sample, error) {
	for _, loc := range ss.locations {
		if loc.ID == locationID {
			return append([]entities.Sample(nil), ss.series[locationID]...), nil
		}
	}
	return nil, ErrLocationNotFound
}
