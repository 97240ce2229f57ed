package swap

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/ligun0805/jupiterSwap/pkg/metrics"
)

const (
	registryCreatedEventName = "RegistryCreated"
	swapExecutedEventName    = "SwapExecuted"

	swapOutcomeCountMetricName = "Swap/%s_count"
	swapLatencyMetricName      = "Swap/latency"
)

func recordRegistryCreatedEvent(ctx context.Context, admin, referral ed25519.PublicKey) {
	metrics.RecordEvent(ctx, registryCreatedEventName, map[string]interface{}{
		"admin":    base58.Encode(admin),
		"referral": base58.Encode(referral),
	})
}

func recordSwapExecutedEvent(ctx context.Context, inputAmount, commission, settled, referralShare, adminShare uint64) {
	metrics.RecordEvent(ctx, swapExecutedEventName, map[string]interface{}{
		"input_amount":   inputAmount,
		"commission":     commission,
		"settled":        settled,
		"referral_share": referralShare,
		"admin_share":    adminShare,
	})
}

func recordSwapOutcomeMetrics(ctx context.Context, outcome string, latency time.Duration) {
	metrics.RecordCount(ctx, fmt.Sprintf(swapOutcomeCountMetricName, outcome), 1)
	metrics.RecordDuration(ctx, swapLatencyMetricName, latency)
}
