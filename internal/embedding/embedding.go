// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package embedding implements the Embedding Gateway: text-to-vector
production with retry and a deterministic fallback for degraded
operation.
*/
package embedding

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// Gateway produces a D-dimensional vector for a piece of text.
type Gateway interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}
