package stats

import (
	"sort"

	"github.com/okian/tasting/internal/domain/model"
)

// Ranking is one bottle of the local leaderboard. Bottles are grouped by
// their history label.
type Ranking struct {
	Rank     int     `json:"rank"`
	Bottle   string  `json:"bottle"`
	Average  float64 `json:"averageScore"`
	Best     float64 `json:"bestScore"`
	Tastings int     `json:"tastings"`
}

// Rank groups records by bottle and orders them by average score.
// Bottles with equal averages share a rank. limit <= 0 returns all.
func Rank(records []model.TastingRecord, limit int) []Ranking {
	groups := make(map[string]*Ranking)
	sums := make(map[string]float64)
	for _, r := range records {
		label := r.WineLabel()
		g, ok := groups[label]
		if !ok {
			g = &Ranking{Bottle: label, Best: r.Score}
			groups[label] = g
		}
		g.Tastings++
		g.Best = max(g.Best, r.Score)
		sums[label] += r.Score
	}

	out := make([]Ranking, 0, len(groups))
	for label, g := range groups {
		g.Average = sums[label] / float64(g.Tastings)
		out = append(out, *g)
	}
	sortRankings(out)
	assignRanksWithTies(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortRankings(entries []Ranking) {
	sort.Slice(entries, func(i, j int) bool {
		// Higher average first
		if entries[i].Average != entries[j].Average {
			return entries[i].Average > entries[j].Average
		}
		// Tie-breaker: bottle label ascending
		return entries[i].Bottle < entries[j].Bottle
	})
}

// assignRanksWithTies gives equal averages the same rank; the next
// distinct average gets the following rank (dense ranking).
func assignRanksWithTies(entries []Ranking) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameScoreCount := 1
		for j := i + 1; j < len(entries) && entries[j].Average == entries[i].Average; j++ {
			entries[j].Rank = currentRank
			sameScoreCount++
		}

		currentRank++
		i += sameScoreCount - 1
	}
}
