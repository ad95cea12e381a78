package memeseason

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// scoreScale is the fixed point scale of factor.
var scoreScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil)

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Contribution is the score a farm balance is worth:
//
//	min(base + isqrt(balance * 10^decimals) * 10^24 / factor / 10^(decimals-18), cap)
//
// A zero factor disables the balance term.
func Contribution(cfg types.FarmConfig, balance types.Amount) (types.Amount, error) {
	if cfg.Decimals < types.MinFarmDecimals || cfg.Decimals > types.MaxFarmDecimals {
		return types.Amount{}, types.NewValidationFailedError(
			fmt.Errorf("decimals %d out of range [%d, %d]", cfg.Decimals, types.MinFarmDecimals, types.MaxFarmDecimals),
		)
	}
	if cfg.Factor.IsZero() {
		return cfg.Base.Min(cfg.Cap), nil
	}

	// balance < 2^128 and decimals <= 38 keep every step within 256 bits
	term := new(big.Int).Mul(balance.Uint().BigInt(), pow10(cfg.Decimals))
	term.Sqrt(term)
	term.Mul(term, scoreScale)
	term.Quo(term, cfg.Factor.Uint().BigInt())
	term.Quo(term, pow10(cfg.Decimals-types.MinFarmDecimals))

	wide := sdkmath.NewUintFromBigInt(term).Add(cfg.Base.Uint())
	if wide.GT(cfg.Cap.Uint()) {
		return cfg.Cap, nil
	}
	return types.AmountFromUint(wide)
}
