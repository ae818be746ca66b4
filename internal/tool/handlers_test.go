// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
	"github.com/cogmem/memoryd/internal/platform/ctxutil"
	"github.com/cogmem/memoryd/internal/platform/sec"
)

/*
TestRequireOperator verifies the operator-role gate used by
approve_proposal/reject_proposal: no claims, a non-operator role, and an
operator role.
*/
func TestRequireOperator(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantError bool
	}{
		{"no_claims", context.Background(), true},
		{"viewer_role", ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{Role: string(sec.RoleViewer)}), true},
		{"operator_role", ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{Role: string(sec.RoleOperator)}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireOperator(tt.ctx)
			if tt.wantError {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "FORBIDDEN", ae.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestDependencies_UpdateInsight_NonPrivilegedRejected verifies
update_insight has no consent-proposal fallback: a non-privileged actor
is rejected outright, without touching [insight.Service].
*/
func TestDependencies_UpdateInsight_NonPrivilegedRejected(t *testing.T) {
	d := Dependencies{} // zero-value: this branch must not dereference Insights

	params, err := json.Marshal(updateInsightParams{
		ID:    1,
		Actor: constants.ActorNonPrivileged,
	})
	require.NoError(t, err)

	result, err := d.updateInsight(context.Background(), "proj-a", params)

	require.Error(t, err)
	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
}

/*
TestDependencies_UpdateInsight_MalformedParams verifies a malformed
params payload is rejected by [decodeParams] before any actor check.
*/
func TestDependencies_UpdateInsight_MalformedParams(t *testing.T) {
	d := Dependencies{}

	result, err := d.updateInsight(context.Background(), "proj-a", json.RawMessage(`not json`))

	require.Error(t, err)
	assert.Nil(t, result)
}
