// Package stages provides the three concrete Stage implementations that
// exercise the workflow engine's contracts: parallel query, anonymized
// peer ranking, and chairman synthesis (spec §4.3). Each stage's shape —
// a stateless struct constructed with its config, a single Execute entry
// point — mirrors pkg/agent.Agent and its controller implementations
// (pkg/agent/controller/{react,scoring,synthesis}.go).
package stages

import (
	"context"
	"fmt"
	"sort"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
)

const defaultUserPromptTemplate = "{{ userQuery }}"

// ModelQuery is one model's outcome within ParallelQueryOutput.
type ModelQuery struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Failed    bool   `json:"failed"`
	Reasoning any    `json:"reasoning,omitempty"`
}

// ParallelQueryOutput is the Stage 1 result (spec §4.3.1).
type ParallelQueryOutput struct {
	Queries      []ModelQuery `json:"queries"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
}

// ParallelQueryConfig configures a ParallelQueryStage instance.
type ParallelQueryConfig struct {
	Models             []string
	SystemPrompt       string
	UserPromptTemplate string
	MaxTokens          int
}

// ParallelQueryStage queries every configured model independently and in
// parallel with the user's query.
type ParallelQueryStage struct {
	cfg ParallelQueryConfig
}

// NewParallelQueryStage creates a ParallelQueryStage.
func NewParallelQueryStage(cfg ParallelQueryConfig) *ParallelQueryStage {
	if cfg.UserPromptTemplate == "" {
		cfg.UserPromptTemplate = defaultUserPromptTemplate
	}
	return &ParallelQueryStage{cfg: cfg}
}

func (s *ParallelQueryStage) ID() string            { return "parallel-query" }
func (s *ParallelQueryStage) Name() string           { return "Parallel Query" }
func (s *ParallelQueryStage) Type() string           { return "parallel-query" }
func (s *ParallelQueryStage) Dependencies() []string { return nil }

// Validate requires at least one configured model.
func (s *ParallelQueryStage) Validate() error {
	if len(s.cfg.Models) == 0 {
		return fmt.Errorf("parallel-query stage requires at least one model")
	}
	return nil
}

func (s *ParallelQueryStage) Execute(ctx context.Context, wfCtx *engine.WorkflowContext, _ map[string]engine.StageResult) (engine.StageResult, error) {
	services := wfCtx.Services()

	userPrompt, err := services.Templates.Render("parallel-query-user", s.cfg.UserPromptTemplate, map[string]any{
		"userQuery": wfCtx.UserQuery(),
	})
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "failed to render user prompt", err)
	}

	var messages []llm.Message
	if s.cfg.SystemPrompt != "" {
		messages = append(messages, llm.Message{Role: "system", Content: s.cfg.SystemPrompt})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	responses, err := services.LLM.QueryParallel(ctx, s.cfg.Models, messages, s.cfg.MaxTokens)
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "parallel query dispatch failed", err)
	}

	queries := make([]ModelQuery, 0, len(s.cfg.Models))
	successCount, failureCount := 0, 0
	for _, model := range s.cfg.Models {
		resp := responses[model]
		if resp == nil {
			queries = append(queries, ModelQuery{Model: model, Failed: true})
			failureCount++
			continue
		}
		queries = append(queries, ModelQuery{Model: model, Response: resp.Content, Reasoning: resp.Reasoning})
		successCount++
	}

	if successCount == 0 {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "every model failed to respond")
	}

	sort.SliceStable(queries, func(i, j int) bool {
		return indexOf(s.cfg.Models, queries[i].Model) < indexOf(s.cfg.Models, queries[j].Model)
	})

	return engine.StageResult{
		Data: ParallelQueryOutput{
			Queries:      queries,
			SuccessCount: successCount,
			FailureCount: failureCount,
		},
		Metadata: map[string]any{
			"successCount": successCount,
			"failureCount": failureCount,
		},
	}, nil
}

func indexOf(models []string, model string) int {
	for i, m := range models {
		if m == model {
			return i
		}
	}
	return -1
}
