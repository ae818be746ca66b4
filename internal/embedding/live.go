// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pgvector/pgvector-go"
)

// maxRetryElapsed bounds how long liveGateway.Embed retries before giving
// up and degrading to the deterministic fallback gateway, independent of
// the caller's context deadline (whichever is shorter wins).
const maxRetryElapsed = 10 * time.Second

// liveGateway calls an HTTP embedding provider, retrying transient
// failures with exponential backoff. On exhausted retries it degrades to
// the deterministic fallback gateway rather than surfacing a hard error,
// so a caller always gets a usable (if lower-quality) vector.
type liveGateway struct {
	endpoint   string
	apiKey     string
	dimension  int
	httpClient *http.Client
	logger     *slog.Logger
	fallback   Gateway
}

// NewLiveGateway constructs a [Gateway] backed by an HTTP embedding
// provider at endpoint, authenticated with apiKey. Requests that exhaust
// the retry budget fall through to a deterministic fallback vector of the
// same dimension.
func NewLiveGateway(endpoint, apiKey string, dimension int, logger *slog.Logger) Gateway {
	return &liveGateway{
		endpoint:   endpoint,
		apiKey:     apiKey,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		fallback:   NewFallbackGateway(dimension),
	}
}

type embedRequest struct {
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// permanentProviderError marks a provider response as not worth retrying,
// per the 4xx-other-than-429 rule.
type permanentProviderError struct {
	status int
	err    error
}

func (e *permanentProviderError) Error() string { return e.err.Error() }
func (e *permanentProviderError) Unwrap() error { return e.err }

func (g *liveGateway) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	policy := backoff.WithContext(backoff.WithMaxElapsedTime(backoff.NewExponentialBackOff(), maxRetryElapsed), ctx)

	var result []float32
	retries := 0

	operation := func() error {
		vec, err := g.call(ctx, text)
		if err != nil {
			var perm *permanentProviderError
			if ok := asPermanent(err, &perm); ok {
				return backoff.Permanent(err)
			}
			retries++
			return err
		}
		result = vec
		return nil
	}

	err := backoff.Retry(operation, policy)
	if err != nil {
		g.logger.ErrorContext(ctx, "embedding_gateway_exhausted", slog.String("error", err.Error()), slog.Int("retries", retries))
		return g.fallback.Embed(ctx, text)
	}
	if retries > 0 {
		g.logger.InfoContext(ctx, "embedding_gateway_recovered", slog.Int("retries", retries))
	}
	return pgvector.NewVector(result), nil
}

func asPermanent(err error, target **permanentProviderError) bool {
	pe, ok := err.(*permanentProviderError)
	if ok {
		*target = pe
	}
	return ok
}

func (g *liveGateway) call(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Input: text})
	if err != nil {
		return nil, &permanentProviderError{err: fmt.Errorf("embedding: encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &permanentProviderError{err: fmt.Errorf("embedding: building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("embedding: provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, &permanentProviderError{
			status: resp.StatusCode,
			err:    fmt.Errorf("embedding: provider rejected request (%d): %s", resp.StatusCode, payload),
		}
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &permanentProviderError{err: fmt.Errorf("embedding: decoding response: %w", err)}
	}
	if len(decoded.Embedding) != g.dimension {
		return nil, &permanentProviderError{
			err: fmt.Errorf("embedding: expected dimension %d, got %d", g.dimension, len(decoded.Embedding)),
		}
	}
	return decoded.Embedding, nil
}
