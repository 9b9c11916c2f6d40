// Package suggest finds "did you mean" candidates for misspelled words.
package suggest

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio a candidate needs.
const DefaultCutoff = 0.6

// DefaultN is the maximum number of candidates returned.
const DefaultN = 3

// CloseMatches returns up to n candidates whose character-level similarity
// to word is at least cutoff, best first. Ties are broken by the candidate
// sorting later, so the result is deterministic.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}
	type scored struct {
		score float64
		s     string
	}
	m := difflib.NewMatcher(nil, chars(word))
	var hits []scored
	for _, c := range candidates {
		m.SetSeq1(chars(c))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if r := m.Ratio(); r >= cutoff {
				hits = append(hits, scored{score: r, s: c})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].s > hits[j].s
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}

// Close is CloseMatches with the default limits.
func Close(word string, candidates []string) []string {
	return CloseMatches(word, candidates, DefaultN, DefaultCutoff)
}

// Quote renders candidates as 'a', 'b'.
func Quote(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = "'" + s + "'"
	}
	return strings.Join(q, ", ")
}

func chars(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "")
}
