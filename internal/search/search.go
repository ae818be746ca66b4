// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search implements hybrid retrieval: per-source candidate
generation (vector similarity, lexical full-text, graph expansion),
Reciprocal Rank Fusion across query variants, lazy Insight-Effectiveness
Feedback re-scoring, and the pure Filter Engine validating the options
that constrain all of the above.
*/
package search

import "time"

// # Source Types

const (
	SourceInsight = "insight"
	SourceEpisode = "episode"
	SourceGraph   = "graph"
)

// Candidate is one per-source search result, the common shape every
// source-specific query returns before fusion.
type Candidate struct {
	ID             int64
	Score          float64
	SourceType     string
	MemoryStrength float64
	CreatedAt      time.Time
	Payload        map[string]any
}

// Filter is the canonical, validated set of retrieval constraints
// produced by [ValidateFilter]. It is a plain value — no I/O, no
// partially-valid states.
type Filter struct {
	TagsFilter       []string
	DateFrom         *time.Time
	DateTo           *time.Time
	SourceTypeFilter []string
	SectorFilter     []string
}
