package rewarder

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/utils/poller"
)

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context, interval time.Duration) *poller.Poller {
	statsPoller := poller.NewPoller(
		"rewarder_stats",
		interval,
		metrics.RecordPollerDuration("rewarder_stats", s.updateStats),
	)
	go statsPoller.Start(ctx)
	return statsPoller
}

// updateStats exports the ledger totals as gauges
func (s *Service) updateStats(ctx context.Context) error {
	totals, err := s.Totals(ctx)
	if err != nil {
		return err
	}

	totalScore, _ := new(big.Float).SetInt(totals.TotalScore.Uint().BigInt()).Float64()
	metrics.RecordTotalStaked(totals.TotalStaked)
	metrics.RecordTotalScore(totalScore)

	log.Ctx(ctx).Debug().
		Uint64("total_staked", totals.TotalStaked).
		Stringer("total_score", totals.TotalScore).
		Msg("Updated rewarder stats")
	return nil
}
