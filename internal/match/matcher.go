// Package match implements the query-matching and ranking engine used by
// the symbol picker. Candidates are matched in three tiers (prefix,
// substring, fuzzy subsequence) with a multi-factor score; the first tier
// that matches wins.
package match

import (
	"strings"
	"unicode"
)

// Kind identifies which tier produced a match.
type Kind string

const (
	KindPrefix   Kind = "prefix"
	KindContains Kind = "contains"
	KindFuzzy    Kind = "fuzzy"
)

// Scoring constants. The absolute values are tuned empirically; only their
// relative ordering (prefix > contains > fuzzy base, capped bonuses and
// penalties) is load-bearing.
const (
	prefixBase   = 100.0
	containsBase = 60.0
	fuzzyBase    = 30.0

	// exactBonus rewards the query covering a complete token.
	exactBonus = 15.0

	// boundaryBonus rewards a match starting at a word boundary; a match
	// right after a path or namespace separator earns an extra half bonus.
	boundaryBonus  = 10.0
	separatorBonus = boundaryBonus / 2

	// consecutiveBonus is granted per contiguous fuzzy match, for at most
	// maxConsecutiveRun matches in a row. Longer runs gain nothing more,
	// which keeps long repeated substrings from running away.
	consecutiveBonus  = 5.0
	maxConsecutiveRun = 3

	// Gap penalties grow with gap size but are capped per gap, so a very
	// large jump is not punished more than maxGapPenalty.
	gapPenaltyPerRune = 1.0
	maxGapPenalty     = 10.0

	// positionWeight / firstMatchPosition: earlier is better.
	positionWeight = 20.0

	// lengthWeight / candidateLength: shorter candidates rank higher on
	// otherwise equal matches.
	lengthWeight = 25.0

	// fullWordBonus ranks an exact whole-candidate match strictly above
	// prefixes of longer candidates.
	fullWordBonus = 50.0
)

// Result describes a successful match.
type Result struct {
	// Ranges are 1-based inclusive [start, end] rune ranges into the
	// candidate text covered by the query.
	Ranges [][2]int

	// Score is the ranking score; higher is better.
	Score float64

	// Kind is the tier that matched.
	Kind Kind

	// Matched is the number of query runes consumed.
	Matched int

	// Gaps counts non-contiguous jumps in a fuzzy match. Zero for prefix
	// and substring matches.
	Gaps int
}

// Match runs query against text and reports whether it matched. Empty text
// or an empty query never match. Case handling is smart-case: an uppercase
// rune anywhere in the query forces case-sensitive comparison, otherwise
// matching is case-insensitive.
func Match(text, query string) (Result, bool) {
	if text == "" || query == "" {
		return Result{}, false
	}

	caseSensitive := hasUpper(query)

	orig := []rune(text)
	tr := orig
	qr := []rune(query)
	if !caseSensitive {
		tr = lowerRunes(orig)
		qr = lowerRunes(qr)
	}

	if r, ok := matchPrefix(tr, qr, len(tr)); ok {
		return r, true
	}
	if r, ok := matchContains(tr, qr, orig); ok {
		return r, true
	}
	return matchFuzzy(tr, qr, orig)
}

// matchPrefix handles the highest tier: the candidate starts with the query.
func matchPrefix(text, query []rune, textLen int) (Result, bool) {
	if len(query) > len(text) {
		return Result{}, false
	}
	for i, q := range query {
		if text[i] != q {
			return Result{}, false
		}
	}

	// A prefix always starts at a word boundary and at position 1, so the
	// boundary and position bonuses are maximal.
	score := prefixBase + exactBonus + boundaryBonus +
		positionBonus(1) + lengthBonus(textLen)
	if len(query) == len(text) {
		score += fullWordBonus
	}

	return Result{
		Ranges:  [][2]int{{1, len(query)}},
		Score:   score,
		Kind:    KindPrefix,
		Matched: len(query),
	}, true
}

// matchContains scans every substring occurrence past position 1 and keeps
// the best-scoring one. Word boundaries are detected on the original-case
// runes so camelCase transitions survive case folding.
func matchContains(text, query, orig []rune) (Result, bool) {
	textLen := len(text)
	best := Result{Score: -1}
	found := false

	for start := 1; start+len(query) <= len(text); start++ {
		if !runesEqualAt(text, query, start) {
			continue
		}

		score := containsBase + positionBonus(start+1)
		if len(query) > 1 {
			score += exactBonus
		}
		if boundary, sep := boundaryAt(orig, start); boundary {
			score += boundaryBonus
			if sep {
				score += separatorBonus
			}
		}

		if !found || score > best.Score {
			found = true
			best = Result{
				Ranges:  [][2]int{{start + 1, start + len(query)}},
				Score:   score,
				Kind:    KindContains,
				Matched: len(query),
			}
		}
	}

	if !found {
		return Result{}, false
	}
	best.Score += lengthBonus(textLen)
	return best, true
}

// matchFuzzy requires every query rune to appear in order in the candidate.
// Contiguous runs earn a capped bonus, jumps cost a capped per-gap penalty,
// and every match landing on a word boundary earns the boundary bonus
// (plus the separator extra), whether it opens a range or continues one.
func matchFuzzy(text, query, orig []rune) (Result, bool) {
	textLen := len(text)
	var (
		ranges     [][2]int
		score      float64
		gaps       int
		run        int // length of the current contiguous run
		qi         int
		last       = -2 // text index of the previous match
		firstMatch = -1
	)

	for ti := 0; ti < len(text) && qi < len(query); ti++ {
		if text[ti] != query[qi] {
			continue
		}

		if ti == last+1 {
			run++
			if run <= maxConsecutiveRun {
				score += consecutiveBonus
			}
			ranges[len(ranges)-1][1] = ti + 1
		} else {
			if last >= 0 {
				gaps++
				gap := float64(ti - last - 1)
				score -= min(gap*gapPenaltyPerRune, maxGapPenalty)
			}
			run = 1
			ranges = append(ranges, [2]int{ti + 1, ti + 1})
		}
		if boundary, sep := boundaryAt(orig, ti); boundary {
			score += boundaryBonus
			if sep {
				score += separatorBonus
			}
		}

		if firstMatch < 0 {
			firstMatch = ti
		}
		last = ti
		qi++
	}

	if qi < len(query) {
		return Result{}, false
	}

	score += fuzzyBase + positionBonus(firstMatch+1) + lengthBonus(textLen)

	return Result{
		Ranges:  ranges,
		Score:   score,
		Kind:    KindFuzzy,
		Matched: len(query),
		Gaps:    gaps,
	}, true
}

// positionBonus decays with the 1-based position of the first matched rune.
func positionBonus(pos int) float64 {
	if pos < 1 {
		pos = 1
	}
	return positionWeight / float64(pos)
}

// lengthBonus decays with candidate length so shorter candidates win ties.
func lengthBonus(textLen int) float64 {
	if textLen < 1 {
		textLen = 1
	}
	return lengthWeight / float64(textLen)
}

// boundaryAt reports whether index i starts a word: start of string, after
// a non-alphanumeric rune, or a camelCase transition. The second return is
// true when the preceding rune is a path or namespace separator.
func boundaryAt(text []rune, i int) (boundary, separator bool) {
	if i == 0 {
		return true, false
	}
	prev := text[i-1]
	if strings.ContainsRune("/\\.:", prev) {
		return true, true
	}
	if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
		return true, false
	}
	if unicode.IsUpper(text[i]) && unicode.IsLower(prev) {
		return true, false
	}
	return false, false
}

func runesEqualAt(text, query []rune, start int) bool {
	for i, q := range query {
		if text[start+i] != q {
			return false
		}
	}
	return true
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
