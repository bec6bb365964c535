package recommend

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/siftlab/assessrec/internal/domain"
	"github.com/siftlab/assessrec/internal/domain/query"
	"github.com/siftlab/assessrec/internal/metrics"
)

// Tuning constants of the ranking policy. They are named so they can be
// adjusted and tested independently of the algorithm shape.
const (
	// EntryLevelBoost is added to the similarity of entry-level-named
	// records when the query asks for entry-level candidates. The boost
	// changes ordering only, never filtering.
	EntryLevelBoost = 0.1
	// RelaxationMinutes widens the duration cap once when the strict cap
	// leaves fewer than MinResults candidates.
	RelaxationMinutes = 10
	// Per-category quotas applied when a query has mixed intent.
	QuotaKnowledge   = 5
	QuotaPersonality = 5
	QuotaAbility     = 3
	// MinResults and MaxResults bound the final list. A corpus with fewer
	// than MinResults qualifying items yields a shorter list; that boundary
	// departure is intentional and must not be padded away.
	MinResults = 5
	MaxResults = 10
)

// Service turns a free-text hiring query into a bounded, diversified list
// of matching assessments. It holds only immutable shared state and is safe
// for concurrent use.
type Service struct {
	index CorpusIndex
	embed Embedder
}

// New creates a recommendation service.
func New(index CorpusIndex, embed Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Recommend runs the full pipeline: requirement extraction and query
// embedding in parallel, similarity scoring, duration filtering with a
// single relaxation, entry-level boosting, category balancing, and the
// final size clamp. The result never contains duplicate URLs.
func (s *Service) Recommend(ctx context.Context, rawQuery string) ([]domain.Recommendation, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, domain.ErrEmptyQuery
	}

	var (
		reqs     query.Requirements
		queryVec []float32
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reqs = query.Analyze(rawQuery)
		return nil
	})
	g.Go(func() error {
		res, err := s.embed.Embed(gctx, rawQuery)
		if err != nil {
			return fmt.Errorf("vectorize query: %w", err)
		}
		queryVec = domain.Normalize(res.Embedding)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores, err := s.index.Scores(queryVec)
	if err != nil {
		return nil, fmt.Errorf("score corpus: %w", err)
	}

	candidates := s.applyConstraints(scores, &reqs)
	candidates = balance(candidates, &reqs)
	candidates = clamp(candidates)

	recs := make([]domain.Recommendation, len(candidates))
	for i, c := range candidates {
		recs[i] = domain.NewRecommendation(c.record, c.score)
	}
	metrics.RecommendationResultSize.Observe(float64(len(recs)))
	return recs, nil
}
