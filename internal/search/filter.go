// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"time"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/pkg/slice"
	"github.com/cogmem/memoryd/pkg/slug"
)

// FilterOptions is the raw, untrusted shape of filter input as received
// from a tool-protocol handler, before [ValidateFilter] canonicalizes it.
type FilterOptions struct {
	TagsFilter       []string
	DateFrom         *time.Time
	DateTo           *time.Time
	SourceTypeFilter []string
	SectorFilter     []string
}

var validSourceTypes = map[string]bool{
	SourceInsight: true,
	SourceEpisode: true,
	SourceGraph:   true,
}

// ValidateFilter is the Filter Engine: a pure function with no I/O. It
// collects every offending field before returning, rather than failing
// on the first, so a caller sees the complete set of issues in one
// structured validation error.
func ValidateFilter(opts FilterOptions) (Filter, error) {
	var fieldErrs []apperr.FieldError

	if opts.DateFrom != nil && opts.DateTo != nil && opts.DateFrom.After(*opts.DateTo) {
		fieldErrs = append(fieldErrs, apperr.FieldError{
			Field:   "date_from",
			Message: "date_from must not be after date_to",
		})
	}

	for _, st := range opts.SourceTypeFilter {
		if !validSourceTypes[st] {
			fieldErrs = append(fieldErrs, apperr.FieldError{
				Field:   "source_type_filter",
				Message: "must be one of: insight, episode, graph",
			})
			break
		}
	}

	if len(fieldErrs) > 0 {
		return Filter{}, apperr.ValidationError("Invalid filter options", fieldErrs...)
	}

	return Filter{
		TagsFilter:       slice.Map(opts.TagsFilter, slug.Canonicalize),
		DateFrom:         opts.DateFrom,
		DateTo:           opts.DateTo,
		SourceTypeFilter: opts.SourceTypeFilter,
		SectorFilter:     opts.SectorFilter,
	}, nil
}

// shouldIncludeSourceType reports whether sourceType passes the given
// filter — an empty/nil filter means "no constraint", i.e. every source
// type is included.
func shouldIncludeSourceType(sourceTypeFilter []string, sourceType string) bool {
	if len(sourceTypeFilter) == 0 {
		return true
	}
	for _, st := range sourceTypeFilter {
		if st == sourceType {
			return true
		}
	}
	return false
}
