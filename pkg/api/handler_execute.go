package api

import (
	"context"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/sse"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
	"github.com/codeready-toolchain/tarsy/pkg/storage"
)

// executeStreamHandler drives one workflow execution end to end: it
// validates the request, appends the user's message, streams progress as
// SSE frames, and commits the resulting assistant message. The storage
// commit runs against a context detached from the request's, so a client
// that disconnects mid-stream never causes the assistant's answer to be
// silently dropped (spec §5).
func (s *Server) executeStreamHandler(c *echo.Context) error {
	identity := identityFrom(c)
	convID := c.Param("id")

	var req executeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conv, err := s.store.GetConversation(c.Request().Context(), convID)
	if err != nil {
		return mapError(err)
	}
	if conv.UserID != identity.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "conversation belongs to another user")
	}

	def, ok := s.registry.Get(req.WorkflowID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "workflow not found")
	}

	if _, err := s.store.AppendUserMessage(c.Request().Context(), convID, req.Content); err != nil {
		return mapError(err)
	}
	if len(conv.Messages) == 0 {
		s.maybeGenerateTitle(convID, req.Content)
	}

	resp := c.Response()
	resp.Header().Set("Content-Type", "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	sink := sse.NewSink(resp)
	defer sink.Close()

	execCtx, cancel := context.WithTimeout(c.Request().Context(), s.cfg.Timeouts.APITimeout)
	defer cancel()

	result, err := s.executor.Execute(execCtx, def, req.Content, s.services, sink)
	if err != nil {
		// A failed stage has already produced a stage_error frame; a
		// definition error or a cancellation before dispatch produces no
		// frame. Headers are already flushed, so there is nothing left to
		// do but log and stop. No assistant message is persisted for a
		// failed run.
		slog.Error("workflow execution failed", "conversationId", convID, "workflowId", req.WorkflowID, "error", err)
		return nil
	}

	stage1, stage2, stage3, ok := projectAssistantMessage(result)
	if !ok {
		slog.Error("workflow completed but produced no recognizable stage output",
			"conversationId", convID, "workflowId", req.WorkflowID)
		return nil
	}

	if _, err := s.store.AppendAssistantMessage(context.Background(), convID, stage1, stage2, stage3); err != nil {
		slog.Error("failed to persist assistant message", "conversationId", convID, "error", err)
	}

	return nil
}

// maybeGenerateTitle runs the configured TitleGenerator against a
// conversation's opening message, bounded by TitleGenerationTimeout. It is
// best-effort: a generator error or empty title just leaves the
// conversation's default title in place (spec §10 — no-op by default).
func (s *Server) maybeGenerateTitle(convID, firstMessage string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeouts.TitleGenerationTimeout)
	defer cancel()

	title, err := s.titleGenerator.GenerateTitle(ctx, firstMessage)
	if err != nil {
		slog.Warn("title generation failed", "conversationId", convID, "error", err)
		return
	}
	if title == "" {
		return
	}
	if _, err := s.store.UpdateTitle(ctx, convID, title); err != nil {
		slog.Warn("failed to persist generated title", "conversationId", convID, "error", err)
	}
}

// projectAssistantMessage converts a completed WorkflowResult's stage
// outputs into the persisted Conversation.Message projection (spec §3).
// ok is false if the result doesn't carry the three council stages this
// handler knows how to project — e.g. a differently-shaped workflow
// registered under the same routes.
func projectAssistantMessage(result *engine.WorkflowResult) ([]storage.StageOneEntry, []storage.StageTwoEntry, storage.StageThreeResult, bool) {
	stage1, ok := result.StageResults["parallel-query"].Data.(stages.ParallelQueryOutput)
	if !ok {
		return nil, nil, storage.StageThreeResult{}, false
	}
	stage2, ok := result.StageResults["peer-ranking"].Data.(stages.PeerRankingOutput)
	if !ok {
		return nil, nil, storage.StageThreeResult{}, false
	}
	stage3, ok := result.StageResults["synthesis"].Data.(stages.SynthesisOutput)
	if !ok {
		return nil, nil, storage.StageThreeResult{}, false
	}

	s1 := make([]storage.StageOneEntry, 0, len(stage1.Queries))
	for _, q := range stage1.Queries {
		if q.Failed {
			continue
		}
		s1 = append(s1, storage.StageOneEntry{Model: q.Model, Response: q.Response})
	}

	s2 := make([]storage.StageTwoEntry, 0, len(stage2.Rankings))
	for _, r := range stage2.Rankings {
		s2 = append(s2, storage.StageTwoEntry{
			Model:         r.Model,
			Ranking:       r.RawEvaluation,
			ParsedRanking: r.ParsedRanking,
		})
	}

	s3 := storage.StageThreeResult{Model: stage3.ChairmanModel, Response: stage3.FinalAnswer}

	return s1, s2, s3, true
}
