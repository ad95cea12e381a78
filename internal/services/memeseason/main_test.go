package memeseason

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jonboulle/clockwork"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/memory"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/shitzu-labs/shitzu-rewarder/tests/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	owner      = types.AccountID("dao.shitzu.near")
	memeseason = types.AccountID("memeseason.shitzu.near")
	boostFarm  = types.AccountID("boostfarm.ref-labs.near")

	xrefSeed   = "xtoken.ref-finance.near"
	shitzuSeed = "token.0xshitzu.near"
	lpSeed     = "v2.ref-finance.near@4369"

	interval = 16 * time.Hour
)

func testFarms() types.FarmConfigs {
	return types.FarmConfigs{
		Xref: types.FarmConfig{
			FarmID:   boostFarm,
			SeedID:   xrefSeed,
			Factor:   types.MustParseAmount("1000000000000000000000000"),
			Base:     e18(100),
			Cap:      e18(200),
			Decimals: 18,
		},
		Shitzu: types.FarmConfig{
			FarmID:   boostFarm,
			SeedID:   shitzuSeed,
			Factor:   types.MustParseAmount("5000000000000000000000000"),
			Base:     e18(50),
			Cap:      e18(100),
			Decimals: 18,
		},
		Lp: types.FarmConfig{
			FarmID:   boostFarm,
			SeedID:   lpSeed,
			Factor:   types.MustParseAmount("10000000000000000000000"),
			Base:     e18(50),
			Cap:      e18(100),
			Decimals: 24,
		},
	}
}

type testEnv struct {
	svc      *Service
	store    *memory.Store
	near     *mocks.NearInterface
	rewarder *mocks.RewarderInterface
	clock    *clockwork.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.MemeseasonConfig{
		AccountID: memeseason,
		Owner:     owner,
		Interval:  interval,
		Farms:     testFarms(),
	}

	env := &testEnv{
		store:    memory.New(),
		near:     mocks.NewNearInterface(t),
		rewarder: mocks.NewRewarderInterface(t),
		clock:    clockwork.NewFakeClock(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	exec := executor.New("memeseason", 16)
	go exec.Start(ctx)
	t.Cleanup(func() {
		cancel()
		exec.Stop()
	})

	env.svc = NewService(cfg, env.store, env.near, env.rewarder, exec, env.clock)
	require.NoError(t, env.svc.Bootstrap(ctx))
	return env
}

// farmBalances makes the farms report the given balances for account.
// Balances are given in xref, shitzu, lp order.
func (e *testEnv) farmBalances(account types.AccountID, xref, shitzu, lp types.Amount) {
	for seed, balance := range map[string]types.Amount{xrefSeed: xref, shitzuSeed: shitzu, lpSeed: lp} {
		e.near.On("GetFarmerSeed", mock.Anything, boostFarm, account, seed).
			Return(&types.FarmerSeed{FreeAmount: balance}, nil).Once()
	}
}

func (e *testEnv) primary(account types.AccountID, tokenID types.TokenID) {
	e.rewarder.On("PrimaryPositionOf", mock.Anything, account).
		Return(&types.PrimaryPosition{TokenID: tokenID, Score: types.ZeroAmount()}, nil).Once()
}

func (e *testEnv) claimCount(t *testing.T, state types.ClaimState) int64 {
	t.Helper()

	counts, err := e.svc.ClaimCounts(t.Context())
	require.NoError(t, err)
	return counts[state]
}

func randomAccount() types.AccountID {
	return types.AccountID(strings.ToLower(gofakeit.LetterN(10)) + ".near")
}

func amountEq(expected types.Amount) any {
	return mock.MatchedBy(func(a types.Amount) bool { return a.Equal(expected) })
}

func e18(n uint64) types.Amount {
	amount, err := types.NewAmount(n).MulUint64(1_000_000_000_000_000_000)
	if err != nil {
		panic(err)
	}
	return amount
}
