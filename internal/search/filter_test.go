// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/search"
)

/*
TestValidateFilter_Valid verifies a filter with no offending fields
passes through unchanged.
*/
func TestValidateFilter_Valid(t *testing.T) {
	from := time.Now().Add(-time.Hour)
	to := time.Now()

	filter, err := search.ValidateFilter(search.FilterOptions{
		TagsFilter:       []string{"billing"},
		DateFrom:         &from,
		DateTo:           &to,
		SourceTypeFilter: []string{search.SourceInsight, search.SourceGraph},
		SectorFilter:     []string{"finance"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"billing"}, filter.TagsFilter)
	assert.Equal(t, []string{"finance"}, filter.SectorFilter)
}

/*
TestValidateFilter_DateRangeInverted verifies date_from after date_to is
rejected.
*/
func TestValidateFilter_DateRangeInverted(t *testing.T) {
	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := search.ValidateFilter(search.FilterOptions{DateFrom: &from, DateTo: &to})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "date_from", ae.Details[0].Field)
}

/*
TestValidateFilter_UnknownSourceType verifies an unrecognised
source_type_filter entry is rejected.
*/
func TestValidateFilter_UnknownSourceType(t *testing.T) {
	_, err := search.ValidateFilter(search.FilterOptions{SourceTypeFilter: []string{"bogus"}})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "source_type_filter", ae.Details[0].Field)
}

/*
TestValidateFilter_SectorWithoutGraph verifies sector_filter is accepted
even when source_type_filter doesn't include graph — applying a sector
filter to source types it has no effect on is not itself invalid.
*/
func TestValidateFilter_SectorWithoutGraph(t *testing.T) {
	filter, err := search.ValidateFilter(search.FilterOptions{
		SourceTypeFilter: []string{search.SourceInsight},
		SectorFilter:     []string{"finance"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"finance"}, filter.SectorFilter)
}

/*
TestValidateFilter_SectorWithEmptySourceTypeFilter verifies an empty
source_type_filter is treated as "no constraint" (includes graph), so
sector_filter is accepted.
*/
func TestValidateFilter_SectorWithEmptySourceTypeFilter(t *testing.T) {
	filter, err := search.ValidateFilter(search.FilterOptions{SectorFilter: []string{"finance"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"finance"}, filter.SectorFilter)
}

/*
TestValidateFilter_AccumulatesAllErrors verifies every offending field
is collected in one pass rather than failing on the first.
*/
func TestValidateFilter_AccumulatesAllErrors(t *testing.T) {
	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := search.ValidateFilter(search.FilterOptions{
		DateFrom:         &from,
		DateTo:           &to,
		SourceTypeFilter: []string{"bogus"},
		SectorFilter:     []string{"finance"},
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}
