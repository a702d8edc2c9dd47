package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelzeko/water-advisor/internal/entities"
	"github.com/abelzeko/water-advisor/internal/integration"
)

var testLocations = []entities.Location{
	{ID: "clean", Name: "Clean Reach", Status: entities.StatusGood},
	{ID: "dirty", Name: "Dirty Reach", Status: entities.StatusPoor},
	{ID: "empty", Name: "Dry Gauge", Status: entities.StatusModerate},
}

// countingSource wraps a static source and counts regenerations
type countingSource struct {
	*integration.StaticSource
	regenerated int
}

func (c *countingSource) Regenerate() { c.regenerated++ }

func newTestSource() *countingSource {
	return &countingSource{StaticSource: integration.NewStaticSource(testLocations, map[string][]entities.Sample{
		"clean": {
			{Hour: 0, Turbidity: 10, PH: 7, DissolvedOxygen: 7, BOD: 1},
			{Hour: 1, Turbidity: 12, PH: 7.2, DissolvedOxygen: 6.5, BOD: 1.5},
		},
		"dirty": {
			{Hour: 0, Turbidity: 10, PH: 7, DissolvedOxygen: 7, BOD: 1},
			{Hour: 1, Turbidity: 45, PH: 6.0, DissolvedOxygen: 3, BOD: 4},
		},
	})}
}

func newTestUseCase(src integration.SampleSource, now *time.Time) *AdvisoryUseCase {
	uc := NewAdvisoryUseCase(src, time.Hour)
	uc.now = func() time.Time { return *now }
	return uc
}

func TestEvaluateLocation(t *testing.T) {
	now := time.Date(2025, time.April, 18, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(newTestSource(), &now)
	ctx := context.Background()

	report, err := uc.EvaluateLocation(ctx, "dirty")
	require.NoError(t, err)

	assert.Equal(t, "Dirty Reach", report.Location.Name)
	assert.True(t, report.Alerting)
	require.NotNil(t, report.Recommendation)
	assert.Equal(t, 25.0, report.Recommendation.CoagulantKg)
	assert.Equal(t, 8.0, report.Recommendation.PHAdjusterKg)
	assert.Equal(t, 17.0, report.Recommendation.ActivatedCarbonKg)
	assert.Len(t, report.Breaches, 4)
	assert.Equal(t, now, report.GeneratedAt)

	report, err = uc.EvaluateLocation(ctx, "clean")
	require.NoError(t, err)
	assert.False(t, report.Alerting)
	assert.Empty(t, report.Breaches)
}

func TestEvaluateLocationWithoutSamples(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)

	report, err := uc.EvaluateLocation(context.Background(), "empty")
	require.NoError(t, err)

	assert.False(t, report.Alerting)
	assert.Nil(t, report.Recommendation)
	assert.Contains(t, uc.FormatReport(report), "No samples available")
}

func TestEvaluateLocationUnknown(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)

	_, err := uc.EvaluateLocation(context.Background(), "nowhere")
	assert.ErrorIs(t, err, integration.ErrLocationNotFound)
}

func TestEvaluateAllAndAlerting(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)
	ctx := context.Background()

	reports, err := uc.EvaluateAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, len(testLocations))
	for i, r := range reports {
		assert.Equal(t, testLocations[i].ID, r.Location.ID)
	}

	alerting, err := uc.GetAlertingReports(ctx)
	require.NoError(t, err)
	require.Len(t, alerting, 1)
	assert.Equal(t, "dirty", alerting[0].Location.ID)
}

// TestRefreshSamplesHonoursTTL checks that the snapshot is only regenerated once it is stale
func TestRefreshSamplesHonoursTTL(t *testing.T) {
	now := time.Date(2025, time.April, 18, 8, 0, 0, 0, time.UTC)
	src := newTestSource()
	uc := newTestUseCase(src, &now)
	ctx := context.Background()

	require.NoError(t, uc.RefreshSamples(ctx, false))
	assert.Equal(t, 1, src.regenerated)
	assert.Equal(t, now, uc.GetLastUpdateTime())

	now = now.Add(30 * time.Minute)
	require.NoError(t, uc.RefreshSamples(ctx, false))
	assert.Equal(t, 1, src.regenerated)

	require.NoError(t, uc.RefreshSamples(ctx, true))
	assert.Equal(t, 2, src.regenerated)

	now = now.Add(2 * time.Hour)
	_, err := uc.EvaluateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.regenerated)
	assert.Equal(t, now, uc.GetLastUpdateTime())
}

func TestRefreshSamplesCancelled(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, uc.RefreshSamples(ctx, true))
	_, err := uc.EvaluateLocation(ctx, "clean")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatReport(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)

	report, err := uc.EvaluateLocation(context.Background(), "dirty")
	require.NoError(t, err)
	text := uc.FormatReport(report)

	assert.Contains(t, text, "Dirty Reach (dirty), status: poor")
	assert.Contains(t, text, "Water quality alert")
	assert.Contains(t, text, "turbidity 45.00 is above the limit of 30.00 at 01:00")
	assert.Contains(t, text, "pH 6.00 is below the limit of 6.50 at 01:00")
	assert.Contains(t, text, "Coagulant: 25.0 kg")
	assert.Contains(t, text, "Flocculant: 1.0 kg")
	assert.Contains(t, text, "pH adjuster: 8.0 kg")
	assert.Contains(t, text, "Activated carbon: 17.0 kg")
}

func TestFormatLocations(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(newTestSource(), &now)

	assert.Contains(t, uc.FormatLocations(nil), "No monitoring locations")
	text := uc.FormatLocations(testLocations)
	assert.Contains(t, text, "• Clean Reach (clean) - status: good")
	assert.Contains(t, text, "/location [id]")
}
