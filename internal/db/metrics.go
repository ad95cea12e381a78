package db

import (
	"context"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.run("WithTransaction", func() error {
		return d.db.WithTransaction(ctx, fn)
	})
}

func (d *DbWithMetrics) GetScore(ctx context.Context, tokenID types.TokenID) (result types.Amount, err error) {
	//nolint:errcheck
	d.run("GetScore", func() error {
		result, err = d.db.GetScore(ctx, tokenID)
		return err
	})
	return
}

func (d *DbWithMetrics) SetScore(ctx context.Context, tokenID types.TokenID, score types.Amount) error {
	return d.run("SetScore", func() error {
		return d.db.SetScore(ctx, tokenID, score)
	})
}

func (d *DbWithMetrics) RemoveFromRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	return d.run("RemoveFromRanking", func() error {
		return d.db.RemoveFromRanking(ctx, score, tokenID)
	})
}

func (d *DbWithMetrics) AppendToRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	return d.run("AppendToRanking", func() error {
		return d.db.AppendToRanking(ctx, score, tokenID)
	})
}

func (d *DbWithMetrics) TopRanking(ctx context.Context, limit int) (result []model.RankingBucket, err error) {
	//nolint:errcheck
	d.run("TopRanking", func() error {
		result, err = d.db.TopRanking(ctx, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) GetStakedToken(ctx context.Context, account types.AccountID) (result types.TokenID, err error) {
	//nolint:errcheck
	d.run("GetStakedToken", func() error {
		result, err = d.db.GetStakedToken(ctx, account)
		return err
	})
	return
}

func (d *DbWithMetrics) GetStaker(ctx context.Context, tokenID types.TokenID) (result types.AccountID, err error) {
	//nolint:errcheck
	d.run("GetStaker", func() error {
		result, err = d.db.GetStaker(ctx, tokenID)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	return d.run("SaveStake", func() error {
		return d.db.SaveStake(ctx, account, tokenID)
	})
}

func (d *DbWithMetrics) DeleteStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	return d.run("DeleteStake", func() error {
		return d.db.DeleteStake(ctx, account, tokenID)
	})
}

func (d *DbWithMetrics) GetTotals(ctx context.Context) (result *model.Totals, err error) {
	//nolint:errcheck
	d.run("GetTotals", func() error {
		result, err = d.db.GetTotals(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveTotals(ctx context.Context, totals *model.Totals) error {
	return d.run("SaveTotals", func() error {
		return d.db.SaveTotals(ctx, totals)
	})
}

func (d *DbWithMetrics) GetOperator(ctx context.Context) (result types.AccountID, err error) {
	//nolint:errcheck
	d.run("GetOperator", func() error {
		result, err = d.db.GetOperator(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SetOperator(ctx context.Context, operator types.AccountID) error {
	return d.run("SetOperator", func() error {
		return d.db.SetOperator(ctx, operator)
	})
}

func (d *DbWithMetrics) IsWhitelisted(ctx context.Context, account types.AccountID) (result bool, err error) {
	//nolint:errcheck
	d.run("IsWhitelisted", func() error {
		result, err = d.db.IsWhitelisted(ctx, account)
		return err
	})
	return
}

func (d *DbWithMetrics) AddToWhitelist(ctx context.Context, account types.AccountID) error {
	return d.run("AddToWhitelist", func() error {
		return d.db.AddToWhitelist(ctx, account)
	})
}

func (d *DbWithMetrics) RemoveFromWhitelist(ctx context.Context, account types.AccountID) error {
	return d.run("RemoveFromWhitelist", func() error {
		return d.db.RemoveFromWhitelist(ctx, account)
	})
}

func (d *DbWithMetrics) GetWhitelist(ctx context.Context) (result []types.AccountID, err error) {
	//nolint:errcheck
	d.run("GetWhitelist", func() error {
		result, err = d.db.GetWhitelist(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveEvent(ctx context.Context, event *model.EventDocument) error {
	return d.run("SaveEvent", func() error {
		return d.db.SaveEvent(ctx, event)
	})
}

func (d *DbWithMetrics) GetLatestEvents(ctx context.Context, limit int) (result []model.EventDocument, err error) {
	//nolint:errcheck
	d.run("GetLatestEvents", func() error {
		result, err = d.db.GetLatestEvents(ctx, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) GetCheckpoint(ctx context.Context, account types.AccountID) (result time.Time, err error) {
	//nolint:errcheck
	d.run("GetCheckpoint", func() error {
		result, err = d.db.GetCheckpoint(ctx, account)
		return err
	})
	return
}

func (d *DbWithMetrics) SetCheckpoint(ctx context.Context, account types.AccountID, at time.Time) error {
	return d.run("SetCheckpoint", func() error {
		return d.db.SetCheckpoint(ctx, account, at)
	})
}

func (d *DbWithMetrics) DeleteCheckpoint(ctx context.Context, account types.AccountID) error {
	return d.run("DeleteCheckpoint", func() error {
		return d.db.DeleteCheckpoint(ctx, account)
	})
}

func (d *DbWithMetrics) GetFarmConfigs(ctx context.Context) (result *types.FarmConfigs, err error) {
	//nolint:errcheck
	d.run("GetFarmConfigs", func() error {
		result, err = d.db.GetFarmConfigs(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveFarmConfigs(ctx context.Context, configs *types.FarmConfigs) error {
	return d.run("SaveFarmConfigs", func() error {
		return d.db.SaveFarmConfigs(ctx, configs)
	})
}

func (d *DbWithMetrics) SaveClaim(ctx context.Context, claim *model.ClaimDocument) error {
	return d.run("SaveClaim", func() error {
		return d.db.SaveClaim(ctx, claim)
	})
}

func (d *DbWithMetrics) UpdateClaim(ctx context.Context, claim *model.ClaimDocument) error {
	return d.run("UpdateClaim", func() error {
		return d.db.UpdateClaim(ctx, claim)
	})
}

func (d *DbWithMetrics) GetClaim(ctx context.Context, id string) (result *model.ClaimDocument, err error) {
	//nolint:errcheck
	d.run("GetClaim", func() error {
		result, err = d.db.GetClaim(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) CountClaimsByState(ctx context.Context, state types.ClaimState) (result int64, err error) {
	//nolint:errcheck
	d.run("CountClaimsByState", func() error {
		result, err = d.db.CountClaimsByState(ctx, state)
		return err
	})
	return
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	// a missing document is an expected answer, not a failed query
	metrics.RecordDbLatency(duration, method, err != nil && !IsNotFoundError(err))
	return err
}
