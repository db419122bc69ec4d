package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	CacheHitsTotal           metric.Int64Counter
	CacheMissesTotal         metric.Int64Counter
	PlanBuildDurationSeconds metric.Float64Histogram
	AIGenerationSeconds      metric.Float64Histogram
	StructuralDefaultsTotal  metric.Int64Counter
	SourceFetchErrorsTotal   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("travAi")
		var err error
		m := &AppMetrics{}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"cache_hits_total",
			metric.WithDescription("Total cache hits, labelled by tier"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"cache_misses_total",
			metric.WithDescription("Total cache misses across both tiers"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_misses_total: %v", err)
		}

		m.PlanBuildDurationSeconds, err = meter.Float64Histogram(
			"plan_build_duration_seconds",
			metric.WithDescription("Duration of end-to-end plan aggregation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_build_duration_seconds: %v", err)
		}

		m.AIGenerationSeconds, err = meter.Float64Histogram(
			"ai_generation_duration_seconds",
			metric.WithDescription("Duration of generative model calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_generation_duration_seconds: %v", err)
		}

		m.StructuralDefaultsTotal, err = meter.Int64Counter(
			"structural_defaults_total",
			metric.WithDescription("Times the validator synthesized a default for a missing section or field"),
			metric.WithUnit("{default}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create structural_defaults_total: %v", err)
		}

		m.SourceFetchErrorsTotal, err = meter.Int64Counter(
			"source_fetch_errors_total",
			metric.WithDescription("External source fetch failures degraded to empty results"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_fetch_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// RecordCacheHit increments the hit counter for the given tier. All record
// helpers are no-ops when metrics were never initialized, so library code
// and tests can call them unconditionally.
func RecordCacheHit(ctx context.Context, tier string) {
	if appMetrics == nil {
		return
	}
	appMetrics.CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

func RecordCacheMiss(ctx context.Context) {
	if appMetrics == nil {
		return
	}
	appMetrics.CacheMissesTotal.Add(ctx, 1)
}

func RecordPlanBuildDuration(ctx context.Context, seconds float64) {
	if appMetrics == nil {
		return
	}
	appMetrics.PlanBuildDurationSeconds.Record(ctx, seconds)
}

func RecordAIGenerationDuration(ctx context.Context, seconds float64) {
	if appMetrics == nil {
		return
	}
	appMetrics.AIGenerationSeconds.Record(ctx, seconds)
}

// RecordStructuralDefault counts one synthesized default; field names the
// section or attribute that had to be defaulted.
func RecordStructuralDefault(ctx context.Context, field string) {
	if appMetrics == nil {
		return
	}
	appMetrics.StructuralDefaultsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
}

func RecordSourceFetchError(ctx context.Context, source string) {
	if appMetrics == nil {
		return
	}
	appMetrics.SourceFetchErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}
