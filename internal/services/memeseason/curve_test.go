package memeseason

import (
	"testing"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContribution(t *testing.T) {
	farms := testFarms()

	tests := []struct {
		name     string
		cfg      types.FarmConfig
		balance  string
		expected types.Amount
	}{
		{"empty xref balance yields base", farms.Xref, "0", e18(100)},
		{"xref balance", farms.Xref, "100000000000000000000", e18(110)},
		{"shitzu balance", farms.Shitzu, "10000000000000000000000", e18(70)},
		{"empty lp balance yields base", farms.Lp, "0", e18(50)},
		{"lp balance with 24 decimals", farms.Lp, "90000000000000000000000", e18(80)},
		{"lp balance capped", farms.Lp, "1000000000000000000000000", e18(100)},
		{
			name: "small factor with 24 decimals",
			cfg: types.FarmConfig{
				Factor:   types.MustParseAmount("5000000000000000000000"),
				Base:     e18(100),
				Cap:      e18(200),
				Decimals: 24,
			},
			balance:  "10000000000000000000000",
			expected: e18(120),
		},
		{
			name: "raw units capped",
			cfg: types.FarmConfig{
				Factor:   types.MustParseAmount("1000000000000000000000000"),
				Base:     types.NewAmount(100),
				Cap:      types.NewAmount(200),
				Decimals: 18,
			},
			balance:  "10000000000000000000000",
			expected: types.NewAmount(200),
		},
		{
			name: "zero factor disables the balance term",
			cfg: types.FarmConfig{
				Factor:   types.ZeroAmount(),
				Base:     e18(100),
				Cap:      e18(200),
				Decimals: 18,
			},
			balance:  "10000000000000000000000",
			expected: e18(100),
		},
		{
			name: "zero factor with base above cap",
			cfg: types.FarmConfig{
				Factor:   types.ZeroAmount(),
				Base:     e18(300),
				Cap:      e18(200),
				Decimals: 18,
			},
			balance:  "0",
			expected: e18(200),
		},
		{
			name: "max balance at max decimals is capped",
			cfg: types.FarmConfig{
				Factor:   types.NewAmount(1),
				Base:     types.ZeroAmount(),
				Cap:      types.MaxAmount(),
				Decimals: 38,
			},
			balance:  types.MaxAmount().String(),
			expected: types.MaxAmount(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Contribution(tt.cfg, types.MustParseAmount(tt.balance))
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), score.String())
		})
	}
}

func TestContributionDecimalsOutOfRange(t *testing.T) {
	for _, decimals := range []uint8{0, 17, 39} {
		cfg := testFarms().Xref
		cfg.Decimals = decimals

		_, err := Contribution(cfg, e18(1))
		assert.True(t, types.HasCode(err, types.ValidationError), "decimals %d", decimals)
	}
}
