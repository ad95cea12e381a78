package rewarder

import (
	"context"
	"strings"
	"sync"
	"testing"

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
	owner       = types.AccountID("dao.shitzu.near")
	operator    = types.AccountID("operator.shitzu.near")
	rewardToken = types.AccountID("token.0xshitzu.near")
	nft         = types.AccountID("shitzu.bodega-lab.near")
	scoreSource = types.AccountID("memeseason.shitzu.near")
)

type testEnv struct {
	svc     *Service
	store   *memory.Store
	relayer *mocks.RelayerInterface

	mu     sync.Mutex
	events []*types.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.RewarderConfig{
		AccountID:   "rewarder.shitzu.near",
		Owner:       owner,
		Operator:    operator,
		RewardToken: rewardToken,
		Nft:         nft,
		Whitelist:   []types.AccountID{scoreSource},
	}

	env := &testEnv{
		store:   memory.New(),
		relayer: mocks.NewRelayerInterface(t),
	}

	eventConsumer := mocks.NewEventConsumer(t)
	eventConsumer.On("PushEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, args.Get(1).(*types.Event))
		}).
		Return(nil).
		Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	exec := executor.New("rewarder", 16)
	go exec.Start(ctx)
	t.Cleanup(func() {
		cancel()
		exec.Stop()
	})

	env.svc = NewService(cfg, env.store, env.relayer, eventConsumer, exec, clockwork.NewFakeClock())
	require.NoError(t, env.svc.Bootstrap(ctx))
	return env
}

// emitted returns the events pushed so far and forgets them.
func (e *testEnv) emitted() []*types.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := e.events
	e.events = nil
	return events
}

func eventNames(events []*types.Event) []types.EventTypes {
	names := make([]types.EventTypes, len(events))
	for i, ev := range events {
		names[i] = ev.Event
	}
	return names
}

func randomAccount() types.AccountID {
	return types.AccountID(strings.ToLower(gofakeit.LetterN(10)) + ".near")
}

func randomToken() types.TokenID {
	return types.TokenID(gofakeit.DigitN(6))
}

// stake makes account the staker of tokenID through the nft notification.
func (e *testEnv) stake(t *testing.T, account types.AccountID, tokenID types.TokenID) {
	t.Helper()

	revert, err := e.svc.Stake(t.Context(), nft, nft, account, tokenID, "")
	require.NoError(t, err)
	require.False(t, revert)
}

func (e *testEnv) track(t *testing.T, tokenID types.TokenID, amount types.Amount) types.Amount {
	t.Helper()

	score, err := e.svc.OnTrackScore(t.Context(), scoreSource, tokenID, amount)
	require.NoError(t, err)
	return score
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
