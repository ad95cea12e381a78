package relayerclient

import (
	"context"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type relayerClientWithMetrics struct {
	relayer RelayerInterface
}

func NewRelayerClientWithMetrics(relayer RelayerInterface) *relayerClientWithMetrics {
	return &relayerClientWithMetrics{relayer: relayer}
}

func (r *relayerClientWithMetrics) FtTransfer(
	ctx context.Context, tokenID, receiver types.AccountID, amount types.Amount, memo string,
) error {
	return runRelayerClientMethodWithMetrics("FtTransfer", func() error {
		return r.relayer.FtTransfer(ctx, tokenID, receiver, amount, memo)
	})
}

func (r *relayerClientWithMetrics) NftTransfer(
	ctx context.Context, nftID, receiver types.AccountID, tokenID types.TokenID, memo string,
) error {
	return runRelayerClientMethodWithMetrics("NftTransfer", func() error {
		return r.relayer.NftTransfer(ctx, nftID, receiver, tokenID, memo)
	})
}

func runRelayerClientMethodWithMetrics(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordRelayerClientLatency(duration, method, err != nil)
	return err
}
