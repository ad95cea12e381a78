package model

import (
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// Totals are the ledger wide counters.
type Totals struct {
	TotalScore       types.Amount
	TotalDistributed types.Amount
	TotalDonated     types.Amount
	TotalStaked      uint64
}

func NewTotals() *Totals {
	return &Totals{
		TotalScore:       types.ZeroAmount(),
		TotalDistributed: types.ZeroAmount(),
		TotalDonated:     types.ZeroAmount(),
	}
}

type TotalsDocument struct {
	ID               string `bson:"_id"`
	TotalScore       string `bson:"total_score"`
	TotalDistributed string `bson:"total_distributed"`
	TotalDonated     string `bson:"total_donated"`
	TotalStaked      int64  `bson:"total_staked"`
}

func NewTotalsDocument(t *Totals) *TotalsDocument {
	return &TotalsDocument{
		ID:               SingletonID,
		TotalScore:       t.TotalScore.String(),
		TotalDistributed: t.TotalDistributed.String(),
		TotalDonated:     t.TotalDonated.String(),
		TotalStaked:      int64(t.TotalStaked),
	}
}

func (d *TotalsDocument) ToTotals() (*Totals, error) {
	score, err := types.ParseAmount(d.TotalScore)
	if err != nil {
		return nil, err
	}
	distributed, err := types.ParseAmount(d.TotalDistributed)
	if err != nil {
		return nil, err
	}
	donated, err := types.ParseAmount(d.TotalDonated)
	if err != nil {
		return nil, err
	}
	return &Totals{
		TotalScore:       score,
		TotalDistributed: distributed,
		TotalDonated:     donated,
		TotalStaked:      uint64(d.TotalStaked),
	}, nil
}
