package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/siftlab/assessrec/internal/domain"
	"github.com/siftlab/assessrec/internal/domain/query"
	"github.com/siftlab/assessrec/internal/metrics"
)

// candidate is a corpus record carrying its (possibly boosted) score and
// original corpus position for deterministic tie breaking.
type candidate struct {
	record domain.Assessment
	score  float64
	pos    int
}

var entryLevelName = regexp.MustCompile(`entry|graduate|junior`)

// applyConstraints builds the candidate list: duration filter with at most
// one relaxation, entry-level boost, then a stable descending sort so ties
// keep corpus order.
func (s *Service) applyConstraints(scores []float64, reqs *query.Requirements) []candidate {
	candidates := make([]candidate, 0, s.index.Len())
	for i := 0; i < s.index.Len(); i++ {
		candidates = append(candidates, candidate{
			record: s.index.Record(i),
			score:  scores[i],
			pos:    i,
		})
	}

	if maxDur, ok := reqs.MaxDuration(); ok {
		strict := withinDuration(candidates, maxDur)
		if len(strict) >= MinResults {
			candidates = strict
		} else {
			// Exactly one relaxation; a still-short list is accepted.
			candidates = withinDuration(candidates, maxDur+RelaxationMinutes)
			metrics.RecommendationDurationRelaxedTotal.Inc()
		}
	}

	if reqs.IsEntryLevel() {
		for i := range candidates {
			if entryLevelName.MatchString(strings.ToLower(candidates[i].record.Name())) {
				candidates[i].score += EntryLevelBoost
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

func withinDuration(candidates []candidate, maxMins int) []candidate {
	kept := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.record.DurationMins() <= maxMins {
			kept = append(kept, c)
		}
	}
	return kept
}
