// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/access"
)

// fakeRepository is a hand-rolled stand-in for [access.Repository]; only
// the fields a given test cares about need populating.
type fakeRepository struct {
	project           *access.Project
	projectErr        error
	readGrantTargets  []string
	rlsStatus         *access.RLSStatus
	violations        []access.ViolationLog
	violationsErr     error
	lastLimit         int
	lastProjectIDs    []string
}

func (f *fakeRepository) GetProject(ctx context.Context, projectID string) (*access.Project, error) {
	return f.project, f.projectErr
}

func (f *fakeRepository) ListReadGrantTargets(ctx context.Context, readerProjectID string) ([]string, error) {
	return f.readGrantTargets, nil
}

func (f *fakeRepository) GetRLSStatus(ctx context.Context, projectID string) (*access.RLSStatus, error) {
	return f.rlsStatus, nil
}

func (f *fakeRepository) ListViolations(ctx context.Context, projectIDs []string, limit int) ([]access.ViolationLog, error) {
	f.lastProjectIDs = projectIDs
	f.lastLimit = limit
	return f.violations, f.violationsErr
}

func (f *fakeRepository) TrimViolationLog(ctx context.Context, projectID string, keep int) error {
	return nil
}

func (f *fakeRepository) RecordBypassAssumed(ctx context.Context, actor, reason string) (int64, error) {
	return 1, nil
}

func (f *fakeRepository) RecordBypassReleased(ctx context.Context, auditID int64) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestService_Mode verifies the conservative-default resolution: a missing
or disabled RLSStatus row falls back to [access.PhaseEnforcing] rather
than the row's own phase.
*/
func TestService_Mode(t *testing.T) {
	tests := []struct {
		name   string
		status *access.RLSStatus
		want   access.Phase
	}{
		{"no_row", nil, access.PhaseEnforcing},
		{"disabled_row", &access.RLSStatus{Phase: access.PhaseShadow, Enabled: false}, access.PhaseEnforcing},
		{"enabled_shadow", &access.RLSStatus{Phase: access.PhaseShadow, Enabled: true}, access.PhaseShadow},
		{"enabled_pending", &access.RLSStatus{Phase: access.PhasePending, Enabled: true}, access.PhasePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{rlsStatus: tt.status}
			svc := access.NewService(repo, discardLogger())

			got := svc.Mode(context.Background(), "proj-a")
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestService_AllowedProjects_Super verifies a super-tier project reads all
projects, represented as (true, nil).
*/
func TestService_AllowedProjects_Super(t *testing.T) {
	repo := &fakeRepository{project: &access.Project{ProjectID: "proj-a", AccessLevel: access.LevelSuper}}
	svc := access.NewService(repo, discardLogger())

	all, allowed, err := svc.AllowedProjects(context.Background(), "proj-a")
	require.NoError(t, err)
	assert.True(t, all)
	assert.Nil(t, allowed)
}

/*
TestService_AllowedProjects_Shared verifies a shared-tier project's read
scope is itself plus its explicit read-grant targets.
*/
func TestService_AllowedProjects_Shared(t *testing.T) {
	repo := &fakeRepository{
		project:          &access.Project{ProjectID: "proj-a", AccessLevel: access.LevelShared},
		readGrantTargets: []string{"proj-b", "proj-c"},
	}
	svc := access.NewService(repo, discardLogger())

	all, allowed, err := svc.AllowedProjects(context.Background(), "proj-a")
	require.NoError(t, err)
	assert.False(t, all)
	assert.ElementsMatch(t, []string{"proj-b", "proj-c", "proj-a"}, allowed)
}

/*
TestService_AllowedProjects_Isolated verifies an isolated-tier project
(and any unrecognised access level) is scoped to itself only.
*/
func TestService_AllowedProjects_Isolated(t *testing.T) {
	tests := []struct {
		name  string
		level access.Level
	}{
		{"isolated", access.LevelIsolated},
		{"unrecognised", access.Level("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{project: &access.Project{ProjectID: "proj-a", AccessLevel: tt.level}}
			svc := access.NewService(repo, discardLogger())

			all, allowed, err := svc.AllowedProjects(context.Background(), "proj-a")
			require.NoError(t, err)
			assert.False(t, all)
			assert.Equal(t, []string{"proj-a"}, allowed)
		})
	}
}

/*
TestService_ListViolations_LimitClamp verifies a zero, negative, or
over-cap limit is clamped to defaultViolationListLimit (100), and a
within-range limit passes through unchanged.
*/
func TestService_ListViolations_LimitClamp(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero", 0, 100},
		{"negative", -5, 100},
		{"over_cap", 1000, 100},
		{"in_range", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			svc := access.NewService(repo, discardLogger())

			_, err := svc.ListViolations(context.Background(), []string{"proj-a"}, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.lastLimit)
		})
	}
}

/*
TestService_ListViolations_PassesProjectScope verifies the project id
filter reaches the repository unchanged, including the empty ("all
projects") case.
*/
func TestService_ListViolations_PassesProjectScope(t *testing.T) {
	repo := &fakeRepository{violations: []access.ViolationLog{{ID: 1, ProjectID: "proj-a"}}}
	svc := access.NewService(repo, discardLogger())

	entries, err := svc.ListViolations(context.Background(), []string{"proj-a", "proj-b"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-a", "proj-b"}, repo.lastProjectIDs)
	assert.Len(t, entries, 1)
}
