package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
)

const defaultSynthesisPromptTemplate = `A panel of models answered the question: {{ userQuery }}

Their responses, ranked best to worst by peer review:

{{ rankedResponses }}

Synthesize these into a single, best final answer.`

// SynthesisOutput is the Stage 3 result (spec §4.3.3).
type SynthesisOutput struct {
	FinalAnswer   string `json:"finalAnswer"`
	Reasoning     any    `json:"reasoning,omitempty"`
	ChairmanModel string `json:"chairmanModel"`
}

// SynthesisConfig configures a SynthesisStage instance.
type SynthesisConfig struct {
	ChairmanModel           string
	SynthesisPromptTemplate string
	ChairmanMaxTokens       int
}

// SynthesisStage has a single "chairman" model synthesize the ranked
// Stage 1 responses into one final answer.
type SynthesisStage struct {
	cfg SynthesisConfig
}

// NewSynthesisStage creates a SynthesisStage.
func NewSynthesisStage(cfg SynthesisConfig) *SynthesisStage {
	if cfg.SynthesisPromptTemplate == "" {
		cfg.SynthesisPromptTemplate = defaultSynthesisPromptTemplate
	}
	return &SynthesisStage{cfg: cfg}
}

func (s *SynthesisStage) ID() string            { return "synthesis" }
func (s *SynthesisStage) Name() string          { return "Synthesis" }
func (s *SynthesisStage) Type() string           { return "synthesis" }
func (s *SynthesisStage) Dependencies() []string { return []string{"parallel-query", "peer-ranking"} }

func (s *SynthesisStage) Validate() error {
	if s.cfg.ChairmanModel == "" {
		return fmt.Errorf("synthesis stage requires a chairman model")
	}
	return nil
}

func (s *SynthesisStage) Execute(ctx context.Context, wfCtx *engine.WorkflowContext, deps map[string]engine.StageResult) (engine.StageResult, error) {
	stage1, ok := deps["parallel-query"].Data.(ParallelQueryOutput)
	if !ok {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "missing or malformed parallel-query result")
	}
	stage2, ok := deps["peer-ranking"].Data.(PeerRankingOutput)
	if !ok {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "missing or malformed peer-ranking result")
	}

	responseByModel := make(map[string]string, len(stage1.Queries))
	for _, q := range stage1.Queries {
		if !q.Failed {
			responseByModel[q.Model] = q.Response
		}
	}

	var sb strings.Builder
	for i, agg := range stage2.AggregateRankings {
		content, ok := responseByModel[agg.Model]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%d. [%s] (average rank %.2f)\n%s\n\n", i+1, agg.Model, agg.AverageRank, content)
	}

	services := wfCtx.Services()
	userPrompt, err := services.Templates.Render("synthesis-user", s.cfg.SynthesisPromptTemplate, map[string]any{
		"userQuery":       wfCtx.UserQuery(),
		"rankedResponses": sb.String(),
	})
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "failed to render synthesis prompt", err)
	}

	messages := []llm.Message{{Role: "user", Content: userPrompt}}
	resp, err := services.LLM.Query(ctx, s.cfg.ChairmanModel, messages, s.cfg.ChairmanMaxTokens)
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "chairman query failed", err)
	}
	if resp.Content == "" {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "chairman returned empty content")
	}

	return engine.StageResult{
		Data: SynthesisOutput{
			FinalAnswer:   resp.Content,
			Reasoning:     resp.Reasoning,
			ChairmanModel: s.cfg.ChairmanModel,
		},
	}, nil
}
