package memeseason

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/shitzu-labs/shitzu-rewarder/internal/utils/poller"
)

var claimStates = []types.ClaimState{
	types.ClaimStatePending,
	types.ClaimStateSucceeded,
	types.ClaimStateFailed,
}

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context, interval time.Duration) *poller.Poller {
	statsPoller := poller.NewPoller(
		"memeseason_stats",
		interval,
		metrics.RecordPollerDuration("memeseason_stats", s.updateStats),
	)
	go statsPoller.Start(ctx)
	return statsPoller
}

// ClaimCounts returns the number of stored claims per state.
func (s *Service) ClaimCounts(ctx context.Context) (map[types.ClaimState]int64, error) {
	return executor.Run(ctx, s.executor, "claim_counts", func(ctx context.Context) *executor.Promise[map[types.ClaimState]int64] {
		counts := make(map[types.ClaimState]int64, len(claimStates))
		for _, state := range claimStates {
			count, err := s.db.CountClaimsByState(ctx, state)
			if err != nil {
				return executor.Rejected[map[types.ClaimState]int64](
					types.NewInternalServiceError(fmt.Errorf("failed to count %s claims: %w", state, err)),
				)
			}
			counts[state] = count
		}
		return executor.Resolved(counts)
	})
}

func (s *Service) updateStats(ctx context.Context) error {
	counts, err := s.ClaimCounts(ctx)
	if err != nil {
		return err
	}

	for state, count := range counts {
		metrics.RecordClaimsByState(state.String(), count)
	}

	log.Ctx(ctx).Debug().
		Int64("pending", counts[types.ClaimStatePending]).
		Int64("succeeded", counts[types.ClaimStateSucceeded]).
		Int64("failed", counts[types.ClaimStateFailed]).
		Msg("Updated memeseason stats")
	return nil
}
