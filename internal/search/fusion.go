// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogmem/memoryd/pkg/slice"
)

// RRFConstant is the literature-standard k used by Reciprocal Rank
// Fusion: score(doc) = Σ_v 1/(k + rank_v(doc)).
const RRFConstant = 60

// MaxQueryVariants bounds how many semantic variants [ExpandQuery]
// produces for a single input query.
const MaxQueryVariants = 4

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"of": true, "to": true, "in": true, "on": true, "and": true,
	"for": true, "with": true, "that": true, "this": true,
}

var wordRegexp = regexp.MustCompile(`[A-Za-z0-9']+`)

// candidateKey uniquely identifies a candidate across source types —
// ids are only stable within a single source table, so the key pairs
// source type with id.
func candidateKey(c Candidate) string {
	return c.SourceType + ":" + strconv.FormatInt(c.ID, 10)
}

// ExpandQuery produces up to [MaxQueryVariants] semantic variants of a
// query: the original text, a lowercased/trimmed form, a stop-word-
// stripped keyword form, and — when the query has enough distinct
// keywords — a keyword-only compacted form. It is a pure text transform;
// it does not call the Embedding Gateway. Each variant is embedded and
// searched independently by the caller before [FuseRRF] runs.
func ExpandQuery(query string) []string {
	variants := []string{query}

	normalized := strings.TrimSpace(strings.ToLower(query))
	if normalized != "" && normalized != query {
		variants = append(variants, normalized)
	}

	words := wordRegexp.FindAllString(normalized, -1)
	keywords := slice.Filter(words, func(w string) bool { return !stopWords[w] })

	if len(keywords) > 0 && len(keywords) < len(words) {
		variants = append(variants, strings.Join(keywords, " "))
	}

	if len(keywords) > 3 {
		variants = append(variants, strings.Join(keywords[:3], " "))
	}

	if len(variants) > MaxQueryVariants {
		variants = variants[:MaxQueryVariants]
	}
	return dedupeStrings(variants)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	return slice.Filter(in, func(s string) bool {
		if seen[s] {
			return false
		}
		seen[s] = true
		return true
	})
}

// DeduplicateWithinSource collapses repeated ids within one ranked list,
// keeping the highest-scoring occurrence. It sorts by score descending
// first so the kept occurrence is always the best one, grounded directly
// in the reference `deduplicate_by_l2_id` utility's sort-then-dedupe
// approach.
func DeduplicateWithinSource(candidates []Candidate) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sortCandidates(sorted)

	seen := make(map[string]bool, len(sorted))
	out := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		key := candidateKey(c)
		if !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// sortCandidates orders a ranked list by score descending, then the
// per-source tie-break: higher memory_strength, then newer created_at,
// then smaller id.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MemoryStrength != b.MemoryStrength {
			return a.MemoryStrength > b.MemoryStrength
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// FuseRRF combines one ranked, deduplicated candidate list per query
// variant into a single fused ranking via Reciprocal Rank Fusion with
// constant k. Output is sorted by fused score descending; ties break by
// the same rule [sortCandidates] applies, using the best-scoring
// occurrence across variants as the tie-break source.
func FuseRRF(variantLists [][]Candidate, k int) []Candidate {
	if k <= 0 {
		k = RRFConstant
	}

	fusedScore := make(map[string]float64)
	best := make(map[string]Candidate)

	for _, list := range variantLists {
		ranked := DeduplicateWithinSource(list)
		for rank, c := range ranked {
			key := candidateKey(c)
			fusedScore[key] += 1.0 / float64(k+rank+1)

			existing, ok := best[key]
			if !ok || c.Score > existing.Score {
				best[key] = c
			}
		}
	}

	out := make([]Candidate, 0, len(best))
	for key, c := range best {
		c.Score = fusedScore[key]
		out = append(out, c)
	}
	sortCandidates(out)
	return out
}
