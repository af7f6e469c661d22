package memory

import (
	"sort"
	"strings"
)

// LexicalScore is the share of query terms that occur in text, in [0, 1].
// Used by stores without a native ranking function.
func LexicalScore(query, text string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			hits++
		}
	}

	return float64(hits) / float64(len(terms))
}

// RankLexical scores memories against query, drops non-matches and returns
// at most limit results, best first. Ties keep their input order.
func RankLexical(query string, memories []Memory, limit int) []Memory {
	ranked := make([]Memory, 0, len(memories))
	for _, m := range memories {
		score := LexicalScore(query, m.Text)
		if score == 0 {
			continue
		}
		m.Score = score
		ranked = append(ranked, m)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
