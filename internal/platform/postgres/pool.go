// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgres provides a high-performance PostgreSQL driver and connection pool.

It specializes in managing 'pgxpool' instances, ensuring that database connections
are recycled efficiently and timeouts are enforced at the driver level.

Architecture:

  - Pool: Thread-safe connection pooling with automatic health checks (Ping).
  - Tuning: Configures MaxConns, MinConns, and MaxConnIdleTime for scalability.
  - Vector search: registers the pgvector binary codec and iterative-scan
    tuning knobs on every physical connection.
  - Safety: Integrates context deadlines to prevent runaway queries.

This package acts as the bridge between the domain repositories and the physical
storage layer.
*/
package postgres

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
)

// # Pool Configuration (Tuning)

// Opinionated pool settings for the memory-service workload.
const (
	// maxConns is the maximum number of connections in the pool.
	maxConns = 25

	// minConns keeps a warm set of connections to avoid cold-start latency.
	minConns = 5

	// maxConnLifetime ensures connections are periodically recycled.
	maxConnLifetime = 60 * time.Minute

	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute

	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute

	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second

	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second

	// iterativeScanMode favours recall over latency on filtered vector
	// queries against partially-matching candidate sets.
	iterativeScanMode = "relaxed_order"

	// maxScanTuples bounds how many tuples pgvector will visit per
	// iterative-scan query before giving up, trading latency for recall.
	maxScanTuples = 2000
)

// # Lifecycle Management

// NewPool creates and validates a new PostgreSQL connection pool.
//
// rlsPhaseOverride, when non-empty, is applied as a per-connection default
// for [constants.SessionGUCRLSPhaseOverride], forcing every project's
// rollout phase to a fixed value regardless of its own rls_status row —
// the live path for [config.Config.RLSPhaseOverride]. An empty value
// leaves phase resolution to the per-project table.
func NewPool(context stdctx.Context, dsn string, rlsPhaseOverride string, logger *slog.Logger) (*pgxpool.Pool, error) {

	// Step 1: Parse the DSN string
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	// Step 2: Apply pool tuning parameters
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// AfterConnect is called each time a new physical connection is established.
	// It registers the pgvector codec and applies per-connection session
	// defaults: statement timeout and vector-search recall tuning.
	poolConfig.AfterConnect = func(context stdctx.Context, connection *pgx.Conn) error {
		if err := pgvector.RegisterTypes(context, connection); err != nil {
			return fmt.Errorf("postgres: registering pgvector types: %w", err)
		}

		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		if _, err := connection.Exec(context, timeoutQuery); err != nil {
			return err
		}

		tuningQuery := fmt.Sprintf(
			"SET hnsw.iterative_scan = '%s'; SET hnsw.max_scan_tuples = %d;",
			iterativeScanMode, maxScanTuples,
		)
		if _, err := connection.Exec(context, tuningQuery); err != nil {
			return err
		}

		// rlsPhaseOverride is validated against a fixed enum in config.Load,
		// so interpolating it directly is safe; SET does not accept bind
		// parameters for its value.
		if rlsPhaseOverride != "" {
			overrideQuery := fmt.Sprintf("SET %s = '%s'", constants.SessionGUCRLSPhaseOverride, rlsPhaseOverride)
			if _, err := connection.Exec(context, overrideQuery); err != nil {
				return fmt.Errorf("postgres: applying rls phase override: %w", err)
			}
		}

		return nil
	}

	// Step 3: Establish the pool
	connectCtx, cancel := stdctx.WithTimeout(context, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	// Step 4: Validate that we can actually reach the database
	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	// Step 5: Log pool statistics on startup
	stats := pool.Stat()
	logger.Info("postgres pool connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// # Health Checks

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(context stdctx.Context, pool *pgxpool.Pool) error {

	// Execute a lightweight ping with a strict timeout
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// # Query Execution Abstraction

// Querier is satisfied by both [*pgxpool.Pool] and [pgx.Tx]. Repository
// methods accept a Querier rather than holding a pool reference directly,
// so callers control whether a given call runs inside a project-scoped
// transaction (the default for any RLS-protected table) or against the
// pool directly (control-plane tables that are not themselves subject to
// the Access-Control predicate).
type Querier interface {
	Exec(ctx stdctx.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx stdctx.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx stdctx.Context, sql string, args ...any) pgx.Row
}

// # Project-Scoped Transactions

// BeginScoped acquires a connection, starts a transaction, and applies the
// caller's current project as a transaction-local GUC so that Row-Level
// Security policies evaluate against it. Callers must defer tx.Rollback.
// The value applies to every later statement in tx and ends with the
// transaction, whether it commits or rolls back.
//
// An empty currentProject is accepted for read paths that are expected to
// see an empty result set under RLS (§4.1 failure semantics); write paths
// must reject an empty currentProject before calling this.
func BeginScoped(context stdctx.Context, pool *pgxpool.Pool, currentProject string) (pgx.Tx, error) {
	tx, err := pool.Begin(context)
	if err != nil {
		return nil, apperr.Capacity(err)
	}

	if _, err := tx.Exec(context, "SELECT set_config($1, $2, true)", constants.SessionGUCCurrentProject, currentProject); err != nil {
		_ = tx.Rollback(context)
		return nil, fmt.Errorf("postgres: applying session scope: %w", err)
	}

	return tx, nil
}
