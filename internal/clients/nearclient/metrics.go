package nearclient

import (
	"context"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type nearClientWithMetrics struct {
	near NearInterface
}

func NewNearClientWithMetrics(near NearInterface) *nearClientWithMetrics {
	return &nearClientWithMetrics{near: near}
}

func (n *nearClientWithMetrics) GetFarmerSeed(
	ctx context.Context, farmID, farmer types.AccountID, seedID string,
) (*types.FarmerSeed, error) {
	return runNearClientMethodWithMetrics("GetFarmerSeed", func() (*types.FarmerSeed, error) {
		return n.near.GetFarmerSeed(ctx, farmID, farmer, seedID)
	})
}

func (n *nearClientWithMetrics) FtBalanceOf(ctx context.Context, tokenID, account types.AccountID) (types.Amount, error) {
	return runNearClientMethodWithMetrics("FtBalanceOf", func() (types.Amount, error) {
		return n.near.FtBalanceOf(ctx, tokenID, account)
	})
}

func runNearClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	result, err := f()
	duration := time.Since(startTime)

	metrics.RecordNearClientLatency(duration, method, err != nil)
	return result, err
}
