package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func (s *Store) GetScore(ctx context.Context, tokenID types.TokenID) (types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	score, ok := s.scores[tokenID]
	if !ok {
		return types.ZeroAmount(), nil
	}
	return score, nil
}

func (s *Store) SetScore(ctx context.Context, tokenID types.TokenID, score types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.scores[tokenID]
	s.scores[tokenID] = score
	s.record(ctx, func() {
		if existed {
			s.scores[tokenID] = prev
		} else {
			delete(s.scores, tokenID)
		}
	})
	return nil
}

func (s *Store) RemoveFromRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.ranking.Get(&bucket{score: score})
	idx := -1
	if ok {
		idx = slices.Index(b.tokens, tokenID)
	}
	if idx < 0 {
		return &db.NotFoundError{
			Key:     score.SortKey(),
			Message: fmt.Sprintf("position %s not found in ranking bucket %s", tokenID, score),
		}
	}

	s.removeAt(score, idx)
	s.record(ctx, func() { s.insertAt(score, idx, tokenID) })
	return nil
}

func (s *Store) AppendToRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := 0
	if b, ok := s.ranking.Get(&bucket{score: score}); ok {
		idx = len(b.tokens)
	}
	s.insertAt(score, idx, tokenID)
	s.record(ctx, func() { s.removeAt(score, idx) })
	return nil
}

func (s *Store) TopRanking(ctx context.Context, limit int) ([]model.RankingBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := make([]model.RankingBucket, 0, min(limit, s.ranking.Len()))
	s.ranking.Ascend(func(b *bucket) bool {
		if len(buckets) >= limit {
			return false
		}
		buckets = append(buckets, model.RankingBucket{
			Score:    b.score,
			TokenIDs: slices.Clone(b.tokens),
		})
		return true
	})
	return buckets, nil
}

// insertAt and removeAt must be called with mu held.
func (s *Store) insertAt(score types.Amount, idx int, tokenID types.TokenID) {
	b, ok := s.ranking.Get(&bucket{score: score})
	if !ok {
		b = &bucket{score: score}
		s.ranking.ReplaceOrInsert(b)
	}
	b.tokens = slices.Insert(b.tokens, idx, tokenID)
}

func (s *Store) removeAt(score types.Amount, idx int) {
	b, ok := s.ranking.Get(&bucket{score: score})
	if !ok {
		return
	}
	b.tokens = slices.Delete(b.tokens, idx, idx+1)
	if len(b.tokens) == 0 {
		s.ranking.Delete(b)
	}
}
