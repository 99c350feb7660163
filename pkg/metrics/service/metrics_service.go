package service

import (
	"context"
	"time"

	"canecycle/pkg/cycle/types"
)

// MetricsService recomputes authoritative per-cycle totals from linked
// activities and observations. A nil CycleTotals with a nil error means
// "no data yet" — callers render TBC, not an error.
type MetricsService interface {
	// GetAuthoritativeTotals always recomputes from the store.
	GetAuthoritativeTotals(cycleID uint) (*types.CycleTotals, error)
	// Snapshot serves the last polled value when warm, recomputing on miss.
	Snapshot(cycleID uint) (*types.CycleTotals, error)
	// StartPolling refreshes snapshots for all active cycles on a fixed
	// cadence until ctx is done.
	StartPolling(ctx context.Context, interval time.Duration)
}
