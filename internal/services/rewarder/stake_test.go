package rewarder

import (
	"errors"
	"testing"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStake(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice, bob := randomAccount(), randomAccount()

	t.Run("only the nft contract can stake", func(t *testing.T) {
		revert, err := env.svc.Stake(ctx, alice, alice, alice, "1", "")
		assert.True(t, revert)
		assert.True(t, types.HasCode(err, types.Unauthorized))
	})

	t.Run("stake binds both ways", func(t *testing.T) {
		env.stake(t, alice, "1")

		position, err := env.svc.PrimaryPositionOf(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, position)
		assert.Equal(t, types.TokenID("1"), position.TokenID)
		assert.True(t, position.Score.IsZero())

		staker, err := env.svc.StakerOf(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, staker)
		assert.Equal(t, alice, *staker)

		totals, err := env.svc.Totals(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, totals.TotalStaked)

		// no score yet, so nothing is minted
		assert.Equal(t, []types.EventTypes{types.EventNftStaked}, eventNames(env.emitted()))
	})

	t.Run("second stake of the same account is reverted", func(t *testing.T) {
		revert, err := env.svc.Stake(ctx, nft, nft, alice, "2", "")
		assert.True(t, revert)
		assert.True(t, types.HasCode(err, types.AlreadyStaked))

		staker, err := env.svc.StakerOf(ctx, "2")
		require.NoError(t, err)
		assert.Nil(t, staker)
	})

	t.Run("staked token cannot be staked by another account", func(t *testing.T) {
		revert, err := env.svc.Stake(ctx, nft, nft, bob, "1", "")
		assert.True(t, revert)
		assert.True(t, types.HasCode(err, types.AlreadyStaked))

		position, err := env.svc.PrimaryPositionOf(ctx, bob)
		require.NoError(t, err)
		assert.Nil(t, position)
	})

	t.Run("invalid account is rejected", func(t *testing.T) {
		revert, err := env.svc.Stake(ctx, nft, nft, "Not An Account", "9", "")
		assert.True(t, revert)
		assert.True(t, types.HasCode(err, types.ValidationError))
	})

	assert.Empty(t, env.emitted())
}

func TestStakeMintsExistingScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice, bob := randomAccount(), randomAccount()

	env.stake(t, alice, "1")
	env.track(t, "1", types.NewAmount(50))

	env.relayer.On("NftTransfer", mock.Anything, nft, alice, types.TokenID("1"), unstakeMemo).Return(nil).Once()
	_, err := env.svc.Unstake(ctx, alice)
	require.NoError(t, err)
	env.emitted()

	env.stake(t, bob, "1")

	events := env.emitted()
	require.Equal(t, []types.EventTypes{types.EventNftStaked, types.EventFtMint}, eventNames(events))
	mint := events[1].Data.([]types.FtMintData)
	assert.Equal(t, bob, mint[0].OwnerID)
	assert.True(t, mint[0].Amount.Equal(types.NewAmount(50)))

	balance, err := env.svc.FtBalanceOf(ctx, bob)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.NewAmount(50)))
}

func TestUnstake(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	t.Run("nothing staked", func(t *testing.T) {
		_, err := env.svc.Unstake(ctx, alice)
		assert.True(t, types.HasCode(err, types.NothingStaked))
	})

	env.stake(t, alice, "1")
	env.track(t, "1", types.NewAmount(10))
	env.emitted()

	t.Run("failed transfer keeps the stake", func(t *testing.T) {
		env.relayer.On("NftTransfer", mock.Anything, nft, alice, types.TokenID("1"), unstakeMemo).
			Return(errors.New("nft transfer failed")).Once()

		_, err := env.svc.Unstake(ctx, alice)
		assert.True(t, types.HasCode(err, types.ExternalCallFailed))

		position, err := env.svc.PrimaryPositionOf(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, position)
		assert.Empty(t, env.emitted())
	})

	t.Run("unstake releases the binding and keeps the score", func(t *testing.T) {
		env.relayer.On("NftTransfer", mock.Anything, nft, alice, types.TokenID("1"), unstakeMemo).Return(nil).Once()

		tokenID, err := env.svc.Unstake(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID("1"), tokenID)

		position, err := env.svc.PrimaryPositionOf(ctx, alice)
		require.NoError(t, err)
		assert.Nil(t, position)

		staker, err := env.svc.StakerOf(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, staker)

		score, err := env.svc.ScoreOf(ctx, "1")
		require.NoError(t, err)
		assert.True(t, score.Equal(types.NewAmount(10)))

		board, err := env.svc.Leaderboard(ctx, 10)
		require.NoError(t, err)
		require.Len(t, board, 1)
		require.Len(t, board[0].Positions, 1)
		assert.Nil(t, board[0].Positions[0].Staker)

		totals, err := env.svc.Totals(ctx)
		require.NoError(t, err)
		assert.Zero(t, totals.TotalStaked)

		events := env.emitted()
		require.Equal(t, []types.EventTypes{types.EventNftUnstaked, types.EventFtBurn}, eventNames(events))
		burn := events[1].Data.([]types.FtBurnData)
		assert.Equal(t, alice, burn[0].OwnerID)
		assert.True(t, burn[0].Amount.Equal(types.NewAmount(10)))

		balance, err := env.svc.FtBalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("unstaked position cannot receive tracked score", func(t *testing.T) {
		_, err := env.svc.OnTrackScore(ctx, scoreSource, "1", types.NewAmount(1))
		assert.True(t, types.HasCode(err, types.NothingStaked))
	})
}

func TestConcurrentUnstake(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()
	env.stake(t, alice, "1")

	release := make(chan struct{})
	env.relayer.On("NftTransfer", mock.Anything, nft, alice, types.TokenID("1"), unstakeMemo).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	errs := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := env.svc.Unstake(ctx, alice)
			errs <- err
		}()
	}
	close(release)

	var failed int
	for range 2 {
		if err := <-errs; err != nil {
			assert.True(t, types.HasCode(err, types.NothingStaked))
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	totals, err := env.svc.Totals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.TotalStaked)
}
