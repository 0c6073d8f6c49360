package stages

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
	"github.com/codeready-toolchain/tarsy/pkg/ranking"
)

const defaultRankingPromptTemplate = `Evaluate the following anonymized responses to the question: {{ userQuery }}

{{ responses }}

Rank the responses from best to worst. End your reply with a section titled exactly:
FINAL RANKING:
followed by a numbered list of response labels, one per line, best first, e.g.:
1. Response B
2. Response A`

// EvaluatorRanking is one evaluator's raw and parsed reply, part of
// PeerRankingOutput.
type EvaluatorRanking struct {
	Model         string   `json:"model"`
	RawEvaluation string   `json:"rawEvaluation"`
	ParsedRanking []string `json:"parsedRanking"`
}

// AggregateRanking is one model's standing in the aggregated result.
type AggregateRanking struct {
	Model         string  `json:"model"`
	AverageRank   float64 `json:"averageRank"`
	RankingsCount int     `json:"rankingsCount"`
}

// PeerRankingOutput is the Stage 2 result (spec §4.3.2).
type PeerRankingOutput struct {
	LabelToModel      map[string]string  `json:"labelToModel"`
	Rankings          []EvaluatorRanking `json:"rankings"`
	AggregateRankings []AggregateRanking `json:"aggregateRankings"`
}

// PeerRankingConfig configures a PeerRankingStage instance.
type PeerRankingConfig struct {
	Models                []string
	RankingPromptTemplate string
	MaxTokens             int
}

// PeerRankingStage has every configured evaluator model rank the
// anonymized Stage 1 responses, then aggregates the rankings.
type PeerRankingStage struct {
	cfg PeerRankingConfig
}

// NewPeerRankingStage creates a PeerRankingStage.
func NewPeerRankingStage(cfg PeerRankingConfig) *PeerRankingStage {
	if cfg.RankingPromptTemplate == "" {
		cfg.RankingPromptTemplate = defaultRankingPromptTemplate
	}
	return &PeerRankingStage{cfg: cfg}
}

func (s *PeerRankingStage) ID() string            { return "peer-ranking" }
func (s *PeerRankingStage) Name() string          { return "Peer Ranking" }
func (s *PeerRankingStage) Type() string          { return "peer-ranking" }
func (s *PeerRankingStage) Dependencies() []string { return []string{"parallel-query"} }

func (s *PeerRankingStage) Validate() error {
	if len(s.cfg.Models) == 0 {
		return fmt.Errorf("peer-ranking stage requires at least one evaluator model")
	}
	return nil
}

func (s *PeerRankingStage) Execute(ctx context.Context, wfCtx *engine.WorkflowContext, deps map[string]engine.StageResult) (engine.StageResult, error) {
	stage1, ok := deps["parallel-query"].Data.(ParallelQueryOutput)
	if !ok {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "missing or malformed parallel-query result")
	}

	labelToModel, anonymized := anonymize(stage1.Queries)
	if len(labelToModel) == 0 {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "no successful stage-1 responses to rank")
	}

	services := wfCtx.Services()
	userPrompt, err := services.Templates.Render("peer-ranking-user", s.cfg.RankingPromptTemplate, map[string]any{
		"userQuery": wfCtx.UserQuery(),
		"responses": anonymized,
	})
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "failed to render ranking prompt", err)
	}

	messages := []llm.Message{{Role: "user", Content: userPrompt}}
	responses, err := services.LLM.QueryParallel(ctx, s.cfg.Models, messages, s.cfg.MaxTokens)
	if err != nil {
		return engine.StageResult{}, engine.WrapStageExecutionError(s.ID(), "ranking dispatch failed", err)
	}

	var evaluatorRankings []EvaluatorRanking
	var forAggregate []ranking.EvaluatorRanking
	for _, model := range s.cfg.Models {
		resp := responses[model]
		if resp == nil {
			continue
		}
		parsed, err := ranking.Parse(resp.Content)
		if err != nil {
			parsed = nil
		}
		evaluatorRankings = append(evaluatorRankings, EvaluatorRanking{
			Model:         model,
			RawEvaluation: resp.Content,
			ParsedRanking: parsed,
		})
		if len(parsed) > 0 {
			forAggregate = append(forAggregate, ranking.EvaluatorRanking{EvaluatorModel: model, ParsedRanking: parsed})
		}
	}

	if len(forAggregate) == 0 {
		return engine.StageResult{}, engine.NewStageExecutionError(s.ID(), "no evaluator produced a parseable ranking")
	}

	aggregated := ranking.Aggregate(forAggregate, labelToModel)
	aggregateRankings := make([]AggregateRanking, 0, len(aggregated))
	for _, a := range aggregated {
		aggregateRankings = append(aggregateRankings, AggregateRanking{
			Model:         a.Model,
			AverageRank:   a.AverageRank,
			RankingsCount: a.RankingsCount,
		})
	}

	return engine.StageResult{
		Data: PeerRankingOutput{
			LabelToModel:      labelToModel,
			Rankings:          evaluatorRankings,
			AggregateRankings: aggregateRankings,
		},
		Metadata: map[string]any{
			"evaluatorCount": len(evaluatorRankings),
		},
	}, nil
}

// anonymize assigns stable "Response A", "Response B", ... labels to
// successful stage-1 responses in the order they appear in queries (spec
// §4.3.2: "labels ... assigned in order of successful Stage 1 results";
// this order is the input model list order, not completion time, since
// ParallelQueryStage already re-sorted Queries to match cfg.Models).
func anonymize(queries []ModelQuery) (map[string]string, string) {
	labelToModel := make(map[string]string)
	var sb []byte
	for _, q := range queries {
		if q.Failed {
			continue
		}
		label := fmt.Sprintf("Response %c", 'A'+len(labelToModel))
		labelToModel[label] = q.Model
		sb = append(sb, []byte(fmt.Sprintf("%s:\n%s\n\n", label, q.Response))...)
	}
	return labelToModel, string(sb)
}
