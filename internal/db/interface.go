package db

import (
	"context"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// Transactor runs fn atomically: either every write made through the ctx
// passed to fn is kept or none is.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ScoreStore interface {
	// GetScore returns zero for a position that was never credited.
	GetScore(ctx context.Context, tokenID types.TokenID) (types.Amount, error)
	SetScore(ctx context.Context, tokenID types.TokenID, score types.Amount) error
	// RemoveFromRanking drops tokenID from the bucket of score and deletes the
	// bucket once it is empty.
	RemoveFromRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error
	// AppendToRanking adds tokenID at the end of the bucket of score.
	AppendToRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error
	// TopRanking returns up to limit buckets, highest score first.
	TopRanking(ctx context.Context, limit int) ([]model.RankingBucket, error)
}

type StakeStore interface {
	// GetStakedToken returns NotFoundError when account has nothing staked.
	GetStakedToken(ctx context.Context, account types.AccountID) (types.TokenID, error)
	// GetStaker returns NotFoundError when tokenID is not staked.
	GetStaker(ctx context.Context, tokenID types.TokenID) (types.AccountID, error)
	// SaveStake binds account and tokenID both ways. It returns
	// DuplicateKeyError if either side is already bound.
	SaveStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error
	DeleteStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error
}

type TotalsStore interface {
	// GetTotals returns zeroed totals before anything was recorded.
	GetTotals(ctx context.Context) (*model.Totals, error)
	SaveTotals(ctx context.Context, totals *model.Totals) error
}

type AccessStore interface {
	// GetOperator returns NotFoundError until an operator is set.
	GetOperator(ctx context.Context) (types.AccountID, error)
	SetOperator(ctx context.Context, operator types.AccountID) error
	IsWhitelisted(ctx context.Context, account types.AccountID) (bool, error)
	AddToWhitelist(ctx context.Context, account types.AccountID) error
	RemoveFromWhitelist(ctx context.Context, account types.AccountID) error
	GetWhitelist(ctx context.Context) ([]types.AccountID, error)
}

type EventStore interface {
	SaveEvent(ctx context.Context, event *model.EventDocument) error
	// GetLatestEvents returns up to limit events, newest first.
	GetLatestEvents(ctx context.Context, limit int) ([]model.EventDocument, error)
}

type CheckpointStore interface {
	// GetCheckpoint returns NotFoundError when account never claimed.
	GetCheckpoint(ctx context.Context, account types.AccountID) (time.Time, error)
	SetCheckpoint(ctx context.Context, account types.AccountID, at time.Time) error
	DeleteCheckpoint(ctx context.Context, account types.AccountID) error
}

type FarmConfigStore interface {
	// GetFarmConfigs returns NotFoundError until configs are saved.
	GetFarmConfigs(ctx context.Context) (*types.FarmConfigs, error)
	SaveFarmConfigs(ctx context.Context, configs *types.FarmConfigs) error
}

type ClaimStore interface {
	SaveClaim(ctx context.Context, claim *model.ClaimDocument) error
	// UpdateClaim overwrites a claim that is still pending. It returns
	// NotFoundError otherwise.
	UpdateClaim(ctx context.Context, claim *model.ClaimDocument) error
	GetClaim(ctx context.Context, id string) (*model.ClaimDocument, error)
	CountClaimsByState(ctx context.Context, state types.ClaimState) (int64, error)
}

// RewarderStore is the state owned by the rewarder ledger.
type RewarderStore interface {
	Transactor
	ScoreStore
	StakeStore
	TotalsStore
	AccessStore
	EventStore
}

// MemeseasonStore is the state owned by the memeseason ledger.
type MemeseasonStore interface {
	Transactor
	CheckpointStore
	FarmConfigStore
	ClaimStore
}

type DbInterface interface {
	Ping(ctx context.Context) error
	RewarderStore
	MemeseasonStore
}
