// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abelzeko/water-advisor/internal/advisory"
	"github.com/abelzeko/water-advisor/internal/entities"
	"github.com/abelzeko/water-advisor/internal/integration"
	"github.com/abelzeko/water-advisor/internal/logger"
	"github.com/abelzeko/water-advisor/internal/metrics"
)

// AdvisoryUseCase evaluates monitoring locations served by a sample source
type AdvisoryUseCase struct {
	source integration.SampleSource
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger

	mu         sync.RWMutex
	lastUpdate time.Time
}

// NewAdvisoryUseCase creates a new advisory use case.
// Snapshots younger than ttl are reused by non-forced refreshes.
func NewAdvisoryUseCase(source integration.SampleSource, ttl time.Duration) *AdvisoryUseCase {
	return &AdvisoryUseCase{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		log:    logger.WithComponent("advisory_usecase"),
	}
}

// RefreshSamples regenerates the sample snapshot when the source supports it.
// Unless force is set, a snapshot fresher than the configured ttl is kept.
func (uc *AdvisoryUseCase) RefreshSamples(ctx context.Context, force bool) error {
	if err := ctx.Err(); err != nil {
		metrics.RefreshTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to refresh samples: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	if !force && !uc.lastUpdate.IsZero() && now.Sub(uc.lastUpdate) < uc.ttl {
		uc.log.Debug().Time("last_update", uc.lastUpdate).Msg("using cached samples")
		metrics.RefreshTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	if r, ok := uc.source.(integration.Regenerator); ok {
		r.Regenerate()
	}
	uc.lastUpdate = now
	metrics.RefreshTotal.WithLabelValues("success").Inc()
	uc.log.Info().Time("last_update", now).Msg("sample snapshot refreshed")
	return nil
}

// GetLastUpdateTime returns the time of the last snapshot refresh
func (uc *AdvisoryUseCase) GetLastUpdateTime() time.Time {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastUpdate
}

// GetLocations returns all monitoring locations
func (uc *AdvisoryUseCase) GetLocations(ctx context.Context) ([]entities.Location, error) {
	locations, err := uc.source.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// EvaluateLocation builds the advisory report for one location
func (uc *AdvisoryUseCase) EvaluateLocation(ctx context.Context, locationID string) (entities.Report, error) {
	if err := uc.RefreshSamples(ctx, false); err != nil {
		return entities.Report{}, err
	}

	locations, err := uc.GetLocations(ctx)
	if err != nil {
		return entities.Report{}, err
	}
	for _, loc := range locations {
		if loc.ID == locationID {
			return uc.evaluate(ctx, loc)
		}
	}
	return entities.Report{}, fmt.Errorf("failed to evaluate %q: %w", locationID, integration.ErrLocationNotFound)
}

// EvaluateAll builds reports for every location in source order
func (uc *AdvisoryUseCase) EvaluateAll(ctx context.Context) ([]entities.Report, error) {
	if err := uc.RefreshSamples(ctx, false); err != nil {
		return nil, err
	}

	locations, err := uc.GetLocations(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]entities.Report, 0, len(locations))
	for _, loc := range locations {
		report, err := uc.evaluate(ctx, loc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GetAlertingReports returns reports only for locations that currently alert
func (uc *AdvisoryUseCase) GetAlertingReports(ctx context.Context) ([]entities.Report, error) {
	reports, err := uc.EvaluateAll(ctx)
	if err != nil {
		return nil, err
	}
	var alerting []entities.Report
	for _, r := range reports {
		if r.Alerting {
			alerting = append(alerting, r)
		}
	}
	return alerting, nil
}

func (uc *AdvisoryUseCase) evaluate(ctx context.Context, loc entities.Location) (entities.Report, error) {
	samples, err := uc.source.Samples(ctx, loc.ID)
	if err != nil {
		return entities.Report{}, fmt.Errorf("failed to fetch samples for %s: %w", loc.ID, err)
	}

	report := entities.Report{
		Location:    loc,
		Samples:     samples,
		Alerting:    advisory.IsAlerting(samples),
		GeneratedAt: uc.now(),
	}
	if rec, ok := advisory.Recommend(samples); ok {
		report.Recommendation = &rec
		report.Breaches = advisory.Breaches(samples[len(samples)-1])
	}

	result := "ok"
	switch {
	case len(samples) == 0:
		result = "no_data"
	case report.Alerting:
		result = "alert"
	}
	metrics.EvaluationsTotal.WithLabelValues(loc.ID, result).Inc()
	alerting := 0.0
	if report.Alerting {
		alerting = 1
	}
	metrics.LocationAlerting.WithLabelValues(loc.ID).Set(alerting)

	uc.log.Debug().
		Str("location", loc.ID).
		Int("samples", len(samples)).
		Bool("alerting", report.Alerting).
		Msg("location evaluated")
	return report, nil
}

// FormatLocations formats the location list for display
func (uc *AdvisoryUseCase) FormatLocations(locations []entities.Location) string {
	if len(locations) == 0 {
		return "No monitoring locations are configured."
	}

	var result strings.Builder
	result.WriteString("Monitoring locations:\n\n")
	for _, loc := range locations {
		result.WriteString(fmt.Sprintf("• %s (%s) - status: %s\n", loc.Name, loc.ID, loc.Status))
	}
	result.WriteString("\nUse /location [id] to get the latest advisory.")
	return result.String()
}

// FormatReport formats a location report for display
func (uc *AdvisoryUseCase) FormatReport(report entities.Report) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("📍 %s (%s), status: %s\n", report.Location.Name, report.Location.ID, report.Location.Status))

	if len(report.Samples) == 0 || report.Recommendation == nil {
		result.WriteString("No samples available for this location.")
		return result.String()
	}

	latest := report.Samples[len(report.Samples)-1]
	result.WriteString(fmt.Sprintf("🕒 Latest sample: %02d:00\n", latest.Hour))
	result.WriteString(fmt.Sprintf("💧 Turbidity: %.1f NTU\n", latest.Turbidity))
	result.WriteString(fmt.Sprintf("🧪 pH: %.2f\n", latest.PH))
	result.WriteString(fmt.Sprintf("🫧 Dissolved oxygen: %.1f mg/L\n", latest.DissolvedOxygen))
	result.WriteString(fmt.Sprintf("🦠 BOD: %.1f mg/L\n\n", latest.BOD))

	if report.Alerting {
		result.WriteString("⚠️ Water quality alert: thresholds were crossed in the last 24 hours.\n")
	} else {
		result.WriteString("✅ All parameters within limits.\n")
	}
	for _, b := range report.Breaches {
		result.WriteString("• " + FormatBreach(b) + "\n")
	}

	rec := report.Recommendation
	result.WriteString("\nRecommended treatment:\n")
	result.WriteString(fmt.Sprintf("Coagulant: %.1f kg\n", rec.CoagulantKg))
	result.WriteString(fmt.Sprintf("Flocculant: %.1f kg\n", rec.FlocculantKg))
	result.WriteString(fmt.Sprintf("pH adjuster: %.1f kg\n", rec.PHAdjusterKg))
	result.WriteString(fmt.Sprintf("Activated carbon: %.1f kg", rec.ActivatedCarbonKg))
	return result.String()
}

// FormatBreach renders the advisory line for a single crossed threshold
func FormatBreach(b entities.Breach) string {
	direction := "below"
	if b.Above {
		direction = "above"
	}
	return fmt.Sprintf("%s %.2f is %s the limit of %.2f at %02d:00", b.Parameter, b.Value, direction, b.Limit, b.Hour)
}
