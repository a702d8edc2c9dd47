package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/abelzeko/water-advisor/internal/entities"
	"github.com/abelzeko/water-advisor/internal/integration"
	"github.com/abelzeko/water-advisor/internal/usecases"
)

// TestRunCheckLogsAlerts tests that only alerting locations produce warnings
func TestRunCheckLogsAlerts(t *testing.T) {
	src := integration.NewStaticSource([]entities.Location{
		{ID: "upstream", Name: "Upstream Intake", Status: entities.StatusGood},
		{ID: "outfall", Name: "Industrial Outfall", Status: entities.StatusPoor},
	}, map[string][]entities.Sample{
		"upstream": {{Hour: 0, Turbidity: 10, PH: 7, DissolvedOxygen: 7, BOD: 1}},
		"outfall":  {{Hour: 0, Turbidity: 45, PH: 7, DissolvedOxygen: 7, BOD: 1}},
	})
	useCase := usecases.NewAdvisoryUseCase(src, time.Hour)

	var buf bytes.Buffer
	runCheck(context.Background(), useCase, zerolog.New(&buf))

	out := buf.String()
	assert.Contains(t, out, `"location":"outfall"`)
	assert.Contains(t, out, `"coagulant_kg":25`)
	assert.NotContains(t, out, `"location":"upstream"`)
	assert.Contains(t, out, `"alerting":1`)
	assert.False(t, useCase.GetLastUpdateTime().IsZero())
}

func TestRunCheckCancelled(t *testing.T) {
	useCase := usecases.NewAdvisoryUseCase(integration.NewMockSource(1, nil), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	runCheck(ctx, useCase, zerolog.New(&buf))

	assert.Contains(t, buf.String(), "sample refresh failed")
}
