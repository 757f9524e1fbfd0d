package obslog

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// TierMetrics records per-tier query latency as OTEL histograms, the way
// pkg/prefetch.Executor makes its *Metrics field optional via SetMetrics:
// a nil *TierMetrics (or one built from a nil meter) is always safe to call
// and costs nothing when no meter provider is configured.
type TierMetrics struct {
	tier1 metric.Float64Histogram
	tier2 metric.Float64Histogram
	tier3 metric.Float64Histogram
	total metric.Float64Histogram
}

// NewTierMetrics builds a TierMetrics from an OTEL meter. Pass nil to get a
// metrics recorder whose methods are no-ops.
func NewTierMetrics(meter metric.Meter) *TierMetrics {
	if meter == nil {
		return &TierMetrics{}
	}
	tm := &TierMetrics{}
	tm.tier1, _ = meter.Float64Histogram("memsearch.query.tier1_ms")
	tm.tier2, _ = meter.Float64Histogram("memsearch.query.tier2_ms")
	tm.tier3, _ = meter.Float64Histogram("memsearch.query.tier3_ms")
	tm.total, _ = meter.Float64Histogram("memsearch.query.total_ms")
	return tm
}

func (tm *TierMetrics) RecordTier1(ctx context.Context, ms float64) {
	if tm == nil || tm.tier1 == nil {
		return
	}
	tm.tier1.Record(ctx, ms)
}

func (tm *TierMetrics) RecordTier2(ctx context.Context, ms float64) {
	if tm == nil || tm.tier2 == nil {
		return
	}
	tm.tier2.Record(ctx, ms)
}

func (tm *TierMetrics) RecordTier3(ctx context.Context, ms float64) {
	if tm == nil || tm.tier3 == nil {
		return
	}
	tm.tier3.Record(ctx, ms)
}

func (tm *TierMetrics) RecordTotal(ctx context.Context, ms float64) {
	if tm == nil || tm.total == nil {
		return
	}
	tm.total.Record(ctx, ms)
}
