package recommend

import (
	"sort"

	"github.com/siftlab/assessrec/internal/domain"
	"github.com/siftlab/assessrec/internal/domain/query"
)

// balance enforces category diversity for mixed-intent queries: per-category
// quotas are taken from the ranked list, the slices are unioned, duplicate
// URLs are dropped keeping the first (highest-score) occurrence, and the
// union is re-sorted. Single-intent queries pass through unchanged.
func balance(sorted []candidate, reqs *query.Requirements) []candidate {
	if !reqs.NeedsBalanced() {
		return sorted
	}

	union := topByType(sorted, domain.TypeKnowledge, QuotaKnowledge)
	union = append(union, topByType(sorted, domain.TypePersonality, QuotaPersonality)...)
	if reqs.NeedsCognitive() {
		union = append(union, topByType(sorted, domain.TypeAbility, QuotaAbility)...)
	}

	seen := make(map[string]bool, len(union))
	deduped := union[:0]
	for _, c := range union {
		if seen[c.record.URL()] {
			continue
		}
		seen[c.record.URL()] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].score > deduped[j].score
	})
	return deduped
}

// topByType returns the first n candidates of the given category, keeping
// the rank order of the input.
func topByType(sorted []candidate, t domain.TestType, n int) []candidate {
	top := make([]candidate, 0, n)
	for _, c := range sorted {
		if c.record.TestType() != t {
			continue
		}
		top = append(top, c)
		if len(top) == n {
			break
		}
	}
	return top
}

// clamp applies the final size bound: at most MaxResults items; a list
// shorter than MinResults is returned whole rather than padded.
func clamp(candidates []candidate) []candidate {
	if len(candidates) > MaxResults {
		return candidates[:MaxResults]
	}
	return candidates
}
