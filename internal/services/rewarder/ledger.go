package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

const DefaultLeaderboardLimit = 10

// LeaderboardEntry is one score bucket of the ranking.
type LeaderboardEntry struct {
	Score     types.Amount     `json:"score"`
	Positions []RankedPosition `json:"positions"`
}

// RankedPosition is a position within a bucket. Staker is nil once the NFT
// was unstaked, the score stays with the position.
type RankedPosition struct {
	TokenID types.TokenID    `json:"token_id"`
	Staker  *types.AccountID `json:"staker"`
}

// recordScore credits delta to the position and moves it to the bucket of its
// new score. It must run inside a transaction: on error nothing it wrote is
// kept.
func (s *Service) recordScore(
	ctx context.Context, tokenID types.TokenID, delta types.Amount, emit emitFn,
) (types.Amount, error) {
	oldScore, err := s.db.GetScore(ctx, tokenID)
	if err != nil {
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to get score: %w", err))
	}

	newScore, err := oldScore.Add(delta)
	if err != nil {
		return types.Amount{}, types.NewArithmeticOverflowError("score of " + tokenID.String())
	}

	totals, err := s.db.GetTotals(ctx)
	if err != nil {
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
	}
	totals.TotalScore, err = totals.TotalScore.Add(delta)
	if err != nil {
		return types.Amount{}, types.NewArithmeticOverflowError("total score")
	}

	// a position that was never credited is in no bucket yet
	if err := s.db.RemoveFromRanking(ctx, oldScore, tokenID); err != nil {
		if !db.IsNotFoundError(err) || !oldScore.IsZero() {
			return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to leave ranking bucket: %w", err))
		}
	}
	if err := s.db.AppendToRanking(ctx, newScore, tokenID); err != nil {
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to enter ranking bucket: %w", err))
	}
	if err := s.db.SetScore(ctx, tokenID, newScore); err != nil {
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to set score: %w", err))
	}
	if err := s.db.SaveTotals(ctx, totals); err != nil {
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to save totals: %w", err))
	}

	emit(types.NewScoreRecordedEvent(tokenID, newScore))

	staker, err := s.db.GetStaker(ctx, tokenID)
	switch {
	case err == nil:
		emit(types.NewFtMintEvent(staker, delta))
	case !db.IsNotFoundError(err):
		return types.Amount{}, types.NewInternalServiceError(fmt.Errorf("failed to get staker: %w", err))
	}

	log.Ctx(ctx).Debug().
		Str("token_id", tokenID.String()).
		Stringer("delta", delta).
		Stringer("score", newScore).
		Msg("score recorded")

	return newScore, nil
}

// checkCredit fails with ArithmeticOverflow when recording delta for tokenID
// would overflow the position score or the total score.
func (s *Service) checkCredit(ctx context.Context, tokenID types.TokenID, delta types.Amount) error {
	score, err := s.db.GetScore(ctx, tokenID)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to get score: %w", err))
	}
	if _, err := score.Add(delta); err != nil {
		return types.NewArithmeticOverflowError("score of " + tokenID.String())
	}

	totals, err := s.db.GetTotals(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
	}
	if _, err := totals.TotalScore.Add(delta); err != nil {
		return types.NewArithmeticOverflowError("total score")
	}
	return nil
}

// ScoreOf returns the score of a position, zero if it was never credited.
func (s *Service) ScoreOf(ctx context.Context, tokenID types.TokenID) (types.Amount, error) {
	return executor.Run(ctx, s.executor, "score_of", func(ctx context.Context) *executor.Promise[types.Amount] {
		score, err := s.db.GetScore(ctx, tokenID)
		if err != nil {
			return executor.Rejected[types.Amount](types.NewInternalServiceError(err))
		}
		return executor.Resolved(score)
	})
}

// Leaderboard returns up to limit buckets, highest score first. Positions
// sharing a score are listed in the order they reached it.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	return executor.Run(ctx, s.executor, "leaderboard", func(ctx context.Context) *executor.Promise[[]LeaderboardEntry] {
		return executor.Settled(s.leaderboard(ctx, limit))
	})
}

func (s *Service) leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	buckets, err := s.db.TopRanking(ctx, limit)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get ranking: %w", err))
	}

	entries := make([]LeaderboardEntry, 0, len(buckets))
	for _, bucket := range buckets {
		entry := LeaderboardEntry{
			Score:     bucket.Score,
			Positions: make([]RankedPosition, 0, len(bucket.TokenIDs)),
		}
		for _, tokenID := range bucket.TokenIDs {
			staker, err := s.stakerOf(ctx, tokenID)
			if err != nil {
				return nil, err
			}
			entry.Positions = append(entry.Positions, RankedPosition{TokenID: tokenID, Staker: staker})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
