// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Access Control: session GUC name, phase literals, role identifiers.
  - Fusion/IEF: RRF constant and feedback score bounds.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "memoryd"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs issued to operators.
	AuthIssuer = "memoryd.internal"

	// ContextKeyUser is the key used to store user claims in the request context.
	ContextKeyUser = "user_claims"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	// HeaderXCurrentProject carries the caller's current-project scope,
	// the GUC the Access-Control Core evaluates RLS predicates against.
	HeaderXCurrentProject = "X-Current-Project"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore = "core"
)

// # Access Control

const (
	// SessionGUCCurrentProject is the Postgres session/transaction-scoped
	// setting carrying the caller's current project into RLS policies.
	SessionGUCCurrentProject = "app.current_project"

	// SessionGUCRLSPhaseOverride is the per-connection Postgres setting
	// [app_project_is_allowed] consults before the per-project rls_status
	// row. Set once per physical connection from [config.RLSPhaseOverride];
	// empty means "use the per-project phase stored in Postgres."
	SessionGUCRLSPhaseOverride = "app.rls_phase_override"

	// EmergencyBypassRole is the NOLOGIN BYPASSRLS role an operator may
	// assume to disable Access-Control predicates entirely for debugging.
	EmergencyBypassRole = "rls_emergency_bypass"

	// AccessLevelSuper grants read access to all projects.
	AccessLevelSuper = "super"
	// AccessLevelShared grants read access to its own project plus its
	// explicit read grants.
	AccessLevelShared = "shared"
	// AccessLevelIsolated grants read access only to its own project. This
	// is the default access level for newly created projects.
	AccessLevelIsolated = "isolated"

	// RLSPhasePending is a no-op phase retaining legacy behaviour.
	RLSPhasePending = "pending"
	// RLSPhaseShadow evaluates predicates but does not enforce them,
	// recording would-be violations instead.
	RLSPhaseShadow = "shadow"
	// RLSPhaseEnforcing applies predicates as load-bearing.
	RLSPhaseEnforcing = "enforcing"

	// ActorPrivileged identifies a privileged caller whose mutations run
	// immediately without a consent proposal.
	ActorPrivileged = "I/O"
	// ActorNonPrivileged identifies a caller whose destructive mutations
	// must go through the Consent/Proposal state machine.
	ActorNonPrivileged = "ethr"
)

// # Fusion & IEF

const (
	// RRFConstant is the Reciprocal Rank Fusion smoothing constant k, the
	// literature-standard value used by the reference query-expansion
	// utilities this component is grounded on.
	RRFConstant = 60

	// MaxQueryVariants bounds how many semantic variants a single query
	// may be expanded into before fusion.
	MaxQueryVariants = 4

	// IEFEventDelta is the per-distinct-event score adjustment applied by
	// the IEF re-scorer for helpful/not_relevant feedback.
	IEFEventDelta = 0.1

	// DefaultMemoryStrength is assigned to a newly created insight.
	DefaultMemoryStrength = 0.5
)

// # Working Memory

const (
	// DefaultWorkingMemoryCapacity bounds the number of live working-memory
	// rows retained per project before LRU eviction.
	DefaultWorkingMemoryCapacity = 200
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixProposalLock = "proposal:settle_lock:"
	RedisPrefixShadowLogCap = "rls:shadow_log:count:"
)
