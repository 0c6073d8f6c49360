package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
)

func stage2Result(aggregates ...AggregateRanking) engine.StageResult {
	return engine.StageResult{Data: PeerRankingOutput{AggregateRankings: aggregates}}
}

func TestSynthesisStage_SynthesizesRankedResponses(t *testing.T) {
	adapter := &fakeAdapter{queryFn: func(model string) (*llm.Response, error) {
		return &llm.Response{Model: model, Content: "Paris is the capital of France."}, nil
	}}

	stage := NewSynthesisStage(SynthesisConfig{ChairmanModel: "chairman-model"})
	wfCtx := engine.NewContext("what is the capital of France?", testServices(adapter))

	deps := map[string]engine.StageResult{
		"parallel-query": stage1Result(
			ModelQuery{Model: "gpt-5", Response: "Paris"},
			ModelQuery{Model: "claude-opus", Response: "Paris, France"},
		),
		"peer-ranking": stage2Result(
			AggregateRanking{Model: "claude-opus", AverageRank: 1, RankingsCount: 1},
			AggregateRanking{Model: "gpt-5", AverageRank: 2, RankingsCount: 1},
		),
	}

	result, err := stage.Execute(context.Background(), wfCtx, deps)
	require.NoError(t, err)

	out := result.Data.(SynthesisOutput)
	assert.Equal(t, "Paris is the capital of France.", out.FinalAnswer)
	assert.Equal(t, "chairman-model", out.ChairmanModel)
}

func TestSynthesisStage_SkipsRankedModelsWithoutStage1Response(t *testing.T) {
	adapter := &fakeAdapter{queryFn: func(model string) (*llm.Response, error) {
		return &llm.Response{Model: model, Content: "final"}, nil
	}}

	stage := NewSynthesisStage(SynthesisConfig{ChairmanModel: "chairman-model"})
	wfCtx := engine.NewContext("q", testServices(adapter))

	deps := map[string]engine.StageResult{
		"parallel-query": stage1Result(
			ModelQuery{Model: "gpt-5", Response: "alpha response"},
			ModelQuery{Model: "claude-opus", Failed: true},
		),
		"peer-ranking": stage2Result(
			AggregateRanking{Model: "claude-opus", AverageRank: 1, RankingsCount: 1},
			AggregateRanking{Model: "gpt-5", AverageRank: 2, RankingsCount: 1},
		),
	}

	_, err := stage.Execute(context.Background(), wfCtx, deps)
	require.NoError(t, err)

	require.Len(t, adapter.lastMessages, 1)
	prompt := adapter.lastMessages[0].Content
	assert.NotContains(t, prompt, "claude-opus")
	assert.Contains(t, prompt, "alpha response")
}

func TestSynthesisStage_MissingDependenciesFail(t *testing.T) {
	stage := NewSynthesisStage(SynthesisConfig{ChairmanModel: "chairman-model"})
	wfCtx := engine.NewContext("q", testServices(&fakeAdapter{}))

	_, err := stage.Execute(context.Background(), wfCtx, map[string]engine.StageResult{
		"parallel-query": stage1Result(ModelQuery{Model: "gpt-5", Response: "a"}),
	})
	require.Error(t, err, "missing peer-ranking result must fail")

	_, err = stage.Execute(context.Background(), wfCtx, map[string]engine.StageResult{
		"peer-ranking": stage2Result(AggregateRanking{Model: "gpt-5", AverageRank: 1}),
	})
	require.Error(t, err, "missing parallel-query result must fail")
}

func TestSynthesisStage_EmptyChairmanContentFails(t *testing.T) {
	adapter := &fakeAdapter{queryFn: func(model string) (*llm.Response, error) {
		return &llm.Response{Model: model, Content: ""}, nil
	}}

	stage := NewSynthesisStage(SynthesisConfig{ChairmanModel: "chairman-model"})
	wfCtx := engine.NewContext("q", testServices(adapter))

	deps := map[string]engine.StageResult{
		"parallel-query": stage1Result(ModelQuery{Model: "gpt-5", Response: "a"}),
		"peer-ranking":   stage2Result(AggregateRanking{Model: "gpt-5", AverageRank: 1}),
	}

	_, err := stage.Execute(context.Background(), wfCtx, deps)
	require.Error(t, err)
}

func TestSynthesisStage_Validate(t *testing.T) {
	require.Error(t, NewSynthesisStage(SynthesisConfig{}).Validate())
	require.NoError(t, NewSynthesisStage(SynthesisConfig{ChairmanModel: "m"}).Validate())
}

func TestSynthesisStage_DependsOnBothPriorStages(t *testing.T) {
	stage := NewSynthesisStage(SynthesisConfig{ChairmanModel: "m"})
	assert.Equal(t, []string{"parallel-query", "peer-ranking"}, stage.Dependencies())
}
