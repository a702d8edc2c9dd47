package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/abelzeko/water-advisor/internal/config"
	"github.com/abelzeko/water-advisor/internal/integration"
	"github.com/abelzeko/water-advisor/internal/logger"
	"github.com/abelzeko/water-advisor/internal/usecases"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("monitor")
	log.Info().Msg("starting Water Advisor monitor")

	source := integration.NewMockSource(cfg.MockSeed, nil)
	useCase := usecases.NewAdvisoryUseCase(source, cfg.SnapshotTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run immediately on startup
	runCheck(ctx, useCase, log)

	c := cron.New()
	_, err = c.AddFunc(cfg.RefreshSchedule, func() {
		runCheck(ctx, useCase, log)
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("failed to set up cron job")
	}
	c.Start()
	log.Info().Str("schedule", cfg.RefreshSchedule).Msg("monitor has been scheduled")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	<-c.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics server shutdown failed")
	}
}

// runCheck regenerates the snapshot and logs every alerting location
func runCheck(ctx context.Context, useCase *usecases.AdvisoryUseCase, log zerolog.Logger) {
	if err := useCase.RefreshSamples(ctx, true); err != nil {
		log.Error().Err(err).Msg("sample refresh failed")
		return
	}

	reports, err := useCase.EvaluateAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("evaluation failed")
		return
	}

	alerting := 0
	for _, r := range reports {
		if !r.Alerting {
			continue
		}
		alerting++
		event := log.Warn().Str("location", r.Location.ID).Int("breaches", len(r.Breaches))
		if r.Recommendation != nil {
			event = event.
				Float64("coagulant_kg", r.Recommendation.CoagulantKg).
				Float64("flocculant_kg", r.Recommendation.FlocculantKg).
				Float64("ph_adjuster_kg", r.Recommendation.PHAdjusterKg).
				Float64("activated_carbon_kg", r.Recommendation.ActivatedCarbonKg)
		}
		event.Msg("water quality alert")
	}
	log.Info().Int("locations", len(reports)).Int("alerting", alerting).Msg("check completed")
}
