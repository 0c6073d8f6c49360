package ranking

import (
	"math"
	"sort"
)

// EvaluatorRanking is one evaluator's parsed preference order (a list of
// response labels, most preferred first) together with the model the
// labels resolve to.
type EvaluatorRanking struct {
	EvaluatorModel string
	ParsedRanking  []string
}

// AggregateResult is one model's standing after averaging its rank across
// every evaluator that mentioned it (spec §4.7 Aggregation).
type AggregateResult struct {
	Model         string
	AverageRank   float64
	RankingsCount int
}

// Aggregate computes, for each model named in labelToModel, the average of
// its 1-indexed position across every evaluator ranking it appears in,
// rounded to 2 decimal places. A model no evaluator ranked is omitted
// entirely, matching spec §4.7 ("for each model with non-empty
// positions"). Results are sorted ascending by averageRank (lower/better
// first); ties are broken by the order labelToModel's models were first
// encountered while walking the rankings in order, each from its most
// preferred label down.
func Aggregate(rankings []EvaluatorRanking, labelToModel map[string]string) []AggregateResult {
	positions := make(map[string][]int)
	var order []string
	seen := make(map[string]bool)

	for _, r := range rankings {
		for i, label := range r.ParsedRanking {
			model, ok := labelToModel[label]
			if !ok {
				continue
			}
			positions[model] = append(positions[model], i+1)
			if !seen[model] {
				seen[model] = true
				order = append(order, model)
			}
		}
	}

	results := make([]AggregateResult, 0, len(order))
	for _, model := range order {
		pos := positions[model]
		sum := 0
		for _, p := range pos {
			sum += p
		}
		avg := math.Round(float64(sum)/float64(len(pos))*100) / 100
		results = append(results, AggregateResult{Model: model, AverageRank: avg, RankingsCount: len(pos)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageRank < results[j].AverageRank
	})

	return results
}
