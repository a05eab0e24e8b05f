package match

import "sort"

// Ranked pairs a surviving candidate with its match result. Index refers to
// the candidate's position in the input slice passed to Rank.
type Ranked struct {
	Index  int
	Text   string
	Result Result
}

// Rank matches every candidate against query and drops the non-matches.
//
// When preserveOrder is true the survivors keep their original relative
// order and the returned index points at the best match within the returned
// slice, so a caller can pre-position its cursor without disturbing the
// visual order. Otherwise survivors are sorted best-first and the best
// index is always 0.
//
// Ties are broken by fewer fuzzy gaps, then by shorter candidate text.
// The best index is -1 when nothing matched.
func Rank(texts []string, query string, preserveOrder bool) ([]Ranked, int) {
	ranked := make([]Ranked, 0, len(texts))
	for i, t := range texts {
		if r, ok := Match(t, query); ok {
			ranked = append(ranked, Ranked{Index: i, Text: t, Result: r})
		}
	}
	if len(ranked) == 0 {
		return ranked, -1
	}

	if preserveOrder {
		best := 0
		for i := 1; i < len(ranked); i++ {
			if better(ranked[i], ranked[best]) {
				best = i
			}
		}
		return ranked, best
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return better(ranked[i], ranked[j])
	})
	return ranked, 0
}

// better reports whether a should rank ahead of b.
func better(a, b Ranked) bool {
	if a.Result.Score != b.Result.Score {
		return a.Result.Score > b.Result.Score
	}
	if a.Result.Gaps != b.Result.Gaps {
		return a.Result.Gaps < b.Result.Gaps
	}
	return len(a.Text) < len(b.Text)
}
