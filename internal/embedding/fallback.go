// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/pgvector/pgvector-go"
)

// fallbackGateway produces a deterministic pseudo-random unit vector
// seeded from a stable hash of the input text. It never fails and never
// calls out to the network; selected when no provider is configured or
// when the live gateway has exhausted its retry budget for a given
// caller's deadline. Ranking quality is expected to be poor, but
// functional tests and degraded operation remain possible.
type fallbackGateway struct {
	dimension int
}

// NewFallbackGateway constructs a deterministic [Gateway] producing
// dimension-length unit vectors.
func NewFallbackGateway(dimension int) Gateway {
	return &fallbackGateway{dimension: dimension}
}

func (g *fallbackGateway) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	rng := rand.New(rand.NewSource(int64(seed)))
	raw := make([]float32, g.dimension)
	var norm float64
	for i := range raw {
		v := rng.Float64()*2 - 1
		raw[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range raw {
			raw[i] = float32(float64(raw[i]) / norm)
		}
	}
	return pgvector.NewVector(raw), nil
}
