// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cogmem/memoryd/internal/embedding"
	"github.com/cogmem/memoryd/internal/episodic"
	"github.com/cogmem/memoryd/internal/graph"
	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
	"github.com/cogmem/memoryd/internal/platform/ctxutil"
	"github.com/cogmem/memoryd/internal/proposal"
	"github.com/cogmem/memoryd/internal/search"
	"github.com/cogmem/memoryd/internal/stats"
)

// Dependencies wires every domain service the tool-protocol transport
// dispatches into.
type Dependencies struct {
	Insights  *insight.Service
	Proposals *proposal.Service
	Graph     *graph.Service
	Episodic  *episodic.Service
	Search    *search.Service
	Stats     *stats.Service
	Embedder  embedding.Gateway
}

func (h *Handler) register(d Dependencies) {
	h.add("create_insight", d.createInsight)
	h.add("update_insight", d.updateInsight)
	h.add("delete_insight", d.deleteInsight)
	h.addRead("get_insight_history", d.getInsightHistory)
	h.add("submit_insight_feedback", d.submitInsightFeedback)
	h.add("approve_proposal", d.approveProposal)
	h.add("reject_proposal", d.rejectProposal)
	h.add("link", d.link)
	h.addRead("expand_graph", d.expandGraph)
	h.add("remember", d.remember)
	h.add("recall", d.recall)
	h.add("record_episode", d.recordEpisode)
	h.add("record_raw", d.recordRaw)
	h.addRead("search", d.search)
	h.addRead("rollup", d.rollup)
}

// # Curation

type createInsightParams struct {
	Content   string         `json:"content"`
	Tags      []string       `json:"tags"`
	Metadata  map[string]any `json:"metadata"`
	SourceIDs []int64        `json:"source_ids"`
}

type insightResult struct {
	ID             int64    `json:"id"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	MemoryStrength float64  `json:"memory_strength"`
}

func (d Dependencies) createInsight(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p createInsightParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	embedding, err := d.Embedder.Embed(ctx, p.Content)
	if err != nil {
		return nil, err
	}

	i := &insight.Insight{
		Content:   p.Content,
		Embedding: embedding,
		Tags:      p.Tags,
		Metadata:  p.Metadata,
		SourceIDs: p.SourceIDs,
	}
	if err := d.Insights.CreateInsight(ctx, currentProject, i); err != nil {
		return nil, err
	}
	return insightResult{ID: i.ID, Content: i.Content, Tags: i.Tags, MemoryStrength: i.MemoryStrength}, nil
}

/*
updateInsight dispatches an update by actor: a privileged caller
mutates immediately through [insight.Service]; a non-privileged caller
is rejected with 403 and no [proposal.Proposal] is raised, because
DELETE_INSIGHT is the only action kind package proposal carries.
*/
type updateInsightParams struct {
	ID                int64    `json:"id"`
	NewContent        *string  `json:"new_content"`
	NewMemoryStrength *float64 `json:"new_memory_strength"`
	Actor             string   `json:"actor"`
	Reason            string   `json:"reason"`
}

func (d Dependencies) updateInsight(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p updateInsightParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	if p.Actor == constants.ActorNonPrivileged {
		return nil, apperr.Forbidden("update_insight requires a privileged actor; request deletion instead for non-privileged proposals")
	}

	if err := d.Insights.UpdateInsight(ctx, currentProject, p.ID, p.NewContent, p.NewMemoryStrength, p.Actor, p.Reason); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID, "updated": true}, nil
}

/*
deleteInsight routes a privileged actor's request directly to
[insight.Service.DeleteInsight]; a non-privileged actor's request
instead raises a pending [proposal.Proposal] via
[proposal.Service.Request], executing nothing until a privileged
reviewer approves it.
*/
type deleteInsightParams struct {
	ID     int64  `json:"id"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

func (d Dependencies) deleteInsight(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p deleteInsightParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	if p.Actor == constants.ActorNonPrivileged {
		prop, err := d.Proposals.Request(ctx, currentProject, p.Actor, proposal.Action{
			Kind:      proposal.ActionDeleteInsight,
			InsightID: p.ID,
		}, p.Reason)
		if err != nil {
			return nil, err
		}
		return map[string]any{"proposal_id": prop.ID, "status": prop.Status}, nil
	}

	if err := d.Insights.DeleteInsight(ctx, currentProject, p.ID, p.Actor, p.Reason); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID, "deleted": true}, nil
}

type getInsightHistoryParams struct {
	ID int64 `json:"id"`
}

func (d Dependencies) getInsightHistory(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p getInsightHistoryParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return d.Insights.GetInsightHistory(ctx, currentProject, p.ID)
}

type submitInsightFeedbackParams struct {
	InsightID int64   `json:"insight_id"`
	Type      string  `json:"feedback_type"`
	Context   *string `json:"context"`
}

func (d Dependencies) submitInsightFeedback(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p submitInsightFeedbackParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := d.Insights.SubmitFeedback(ctx, currentProject, p.InsightID, p.Type, p.Context); err != nil {
		return nil, err
	}
	return map[string]any{"insight_id": p.InsightID, "recorded": true}, nil
}

// # Consent / Proposal

type settleProposalParams struct {
	ProposalID  int64  `json:"proposal_id"`
	Reviewer    string `json:"reviewer"`
	ReviewNotes string `json:"review_notes"`
}

func (d Dependencies) approveProposal(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p settleProposalParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := requireOperator(ctx); err != nil {
		return nil, err
	}
	return d.Proposals.Approve(ctx, currentProject, p.ProposalID, p.Reviewer, p.ReviewNotes)
}

func (d Dependencies) rejectProposal(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p settleProposalParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := requireOperator(ctx); err != nil {
		return nil, err
	}
	return d.Proposals.Reject(ctx, currentProject, p.ProposalID, p.Reviewer, p.ReviewNotes)
}

// requireOperator gates settlement of a pending proposal to a caller
// holding the operator role — reviewing consent proposals is an operator
// capability, not an agent one.
func requireOperator(ctx context.Context) error {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil || !claims.IsOperator() {
		return apperr.Forbidden("proposal review requires operator role")
	}
	return nil
}

// # Graph

type linkParams struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Sector     string         `json:"sector"`
	Properties map[string]any `json:"properties"`
}

func (d Dependencies) link(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p linkParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return d.Graph.Link(ctx, currentProject, p.Source, p.Target, p.Relation, p.Sector, p.Properties)
}

type expandGraphParams struct {
	SeedNodeIDs  []int64  `json:"seed_node_ids"`
	SectorFilter []string `json:"sector_filter"`
	Depth        int      `json:"depth"`
}

func (d Dependencies) expandGraph(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p expandGraphParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return d.Graph.Expand(ctx, currentProject, p.SeedNodeIDs, p.Depth, p.SectorFilter)
}

// # Episodic

type rememberParams struct {
	Content  string `json:"content"`
	Capacity int    `json:"capacity"`
}

func (d Dependencies) remember(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p rememberParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	vec, err := d.Embedder.Embed(ctx, p.Content)
	if err != nil {
		return nil, err
	}
	return d.Episodic.Remember(ctx, currentProject, p.Content, vec, p.Capacity)
}

type recallParams struct {
	ID int64 `json:"id"`
}

func (d Dependencies) recall(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p recallParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := d.Episodic.Recall(ctx, currentProject, p.ID); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID, "touched": true}, nil
}

type recordContentParams struct {
	Content string `json:"content"`
}

func (d Dependencies) recordEpisode(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p recordContentParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	vec, err := d.Embedder.Embed(ctx, p.Content)
	if err != nil {
		return nil, err
	}
	return d.Episodic.RecordEpisode(ctx, currentProject, p.Content, vec)
}

func (d Dependencies) recordRaw(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p recordContentParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	vec, err := d.Embedder.Embed(ctx, p.Content)
	if err != nil {
		return nil, err
	}
	return d.Episodic.RecordRaw(ctx, currentProject, p.Content, vec)
}

// # Search

type searchParams struct {
	Query            string     `json:"query"`
	TagsFilter       []string   `json:"tags_filter"`
	DateFrom         *time.Time `json:"date_from"`
	DateTo           *time.Time `json:"date_to"`
	SourceTypeFilter []string   `json:"source_type_filter"`
	SectorFilter     []string   `json:"sector_filter"`
	Limit            int        `json:"limit"`
}

func (d Dependencies) search(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	var p searchParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	filter, err := search.ValidateFilter(search.FilterOptions{
		TagsFilter:       p.TagsFilter,
		DateFrom:         p.DateFrom,
		DateTo:           p.DateTo,
		SourceTypeFilter: p.SourceTypeFilter,
		SectorFilter:     p.SectorFilter,
	})
	if err != nil {
		return nil, err
	}

	return d.Search.Query(ctx, currentProject, p.Query, filter, p.Limit)
}

// # Stats

func (d Dependencies) rollup(ctx context.Context, currentProject string, raw json.RawMessage) (any, error) {
	return d.Stats.Rollup(ctx, currentProject)
}
