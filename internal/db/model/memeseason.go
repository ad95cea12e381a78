package model

import (
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type CheckpointDocument struct {
	AccountID string `bson:"_id"`
	// Timestamp in unix nanoseconds
	Timestamp int64 `bson:"timestamp"`
}

type FarmConfigDocument struct {
	FarmID   string `bson:"farm_id"`
	SeedID   string `bson:"seed_id"`
	Factor   string `bson:"factor"`
	Base     string `bson:"base"`
	Cap      string `bson:"cap"`
	Decimals int32  `bson:"decimals"`
}

type FarmConfigsDocument struct {
	ID     string             `bson:"_id"`
	Xref   FarmConfigDocument `bson:"xref"`
	Shitzu FarmConfigDocument `bson:"shitzu"`
	Lp     FarmConfigDocument `bson:"lp"`
}

func newFarmConfigDocument(c types.FarmConfig) FarmConfigDocument {
	return FarmConfigDocument{
		FarmID:   c.FarmID.String(),
		SeedID:   c.SeedID,
		Factor:   c.Factor.String(),
		Base:     c.Base.String(),
		Cap:      c.Cap.String(),
		Decimals: int32(c.Decimals),
	}
}

func (d FarmConfigDocument) toFarmConfig() (types.FarmConfig, error) {
	factor, err := types.ParseAmount(d.Factor)
	if err != nil {
		return types.FarmConfig{}, err
	}
	base, err := types.ParseAmount(d.Base)
	if err != nil {
		return types.FarmConfig{}, err
	}
	capAmount, err := types.ParseAmount(d.Cap)
	if err != nil {
		return types.FarmConfig{}, err
	}
	return types.FarmConfig{
		FarmID:   types.AccountID(d.FarmID),
		SeedID:   d.SeedID,
		Factor:   factor,
		Base:     base,
		Cap:      capAmount,
		Decimals: uint8(d.Decimals),
	}, nil
}

func NewFarmConfigsDocument(c *types.FarmConfigs) *FarmConfigsDocument {
	return &FarmConfigsDocument{
		ID:     SingletonID,
		Xref:   newFarmConfigDocument(c.Xref),
		Shitzu: newFarmConfigDocument(c.Shitzu),
		Lp:     newFarmConfigDocument(c.Lp),
	}
}

func (d *FarmConfigsDocument) ToFarmConfigs() (*types.FarmConfigs, error) {
	xref, err := d.Xref.toFarmConfig()
	if err != nil {
		return nil, err
	}
	shitzu, err := d.Shitzu.toFarmConfig()
	if err != nil {
		return nil, err
	}
	lp, err := d.Lp.toFarmConfig()
	if err != nil {
		return nil, err
	}
	return &types.FarmConfigs{Xref: xref, Shitzu: shitzu, Lp: lp}, nil
}

// ClaimDocument follows one claim from the cooldown check to the forwarded
// score.
type ClaimDocument struct {
	ID        string           `bson:"_id" json:"claim_id"`
	AccountID string           `bson:"account_id" json:"account_id"`
	State     types.ClaimState `bson:"state" json:"state"`
	TokenID   string           `bson:"token_id,omitempty" json:"token_id,omitempty"`
	Score     string           `bson:"score,omitempty" json:"score,omitempty"`
	ErrorCode string           `bson:"error_code,omitempty" json:"error_code,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}
