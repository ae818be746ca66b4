// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package embedding

import "log/slog"

// Select picks the live HTTP gateway when a provider endpoint is
// configured, falling back to the deterministic gateway otherwise. A live
// gateway that later exhausts its own retry budget for a given call
// degrades to the same deterministic fallback rather than surfacing a
// transient error, per the unconfigured-or-exhausted-retries fallback
// rule.
func Select(providerURL, apiKey string, dimension int, logger *slog.Logger) Gateway {
	if providerURL == "" {
		logger.Warn("embedding_gateway_degraded", slog.String("reason", "no provider configured"))
		return NewFallbackGateway(dimension)
	}
	return NewLiveGateway(providerURL, apiKey, dimension, logger)
}
