package model

import (
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// ScoreDocument holds the score of one position. Score is stored as a sort
// key so that it keeps its full 128-bit precision.
type ScoreDocument struct {
	TokenID string `bson:"_id"`
	Score   string `bson:"score"`
}

// RankingBucketDocument groups every position with the same score, in the
// order they reached it.
type RankingBucketDocument struct {
	ScoreKey string   `bson:"_id"`
	TokenIDs []string `bson:"token_ids"`
}

type RankingBucket struct {
	Score    types.Amount
	TokenIDs []types.TokenID
}

func (d *RankingBucketDocument) ToBucket() (RankingBucket, error) {
	score, err := types.ParseSortKey(d.ScoreKey)
	if err != nil {
		return RankingBucket{}, err
	}
	tokens := make([]types.TokenID, len(d.TokenIDs))
	for i, id := range d.TokenIDs {
		tokens[i] = types.TokenID(id)
	}
	return RankingBucket{Score: score, TokenIDs: tokens}, nil
}

// StakeDocument is keyed by account. token_id carries a unique index so the
// reverse binding is enforced by the database too.
type StakeDocument struct {
	AccountID string `bson:"_id"`
	TokenID   string `bson:"token_id"`
}
