package memeseason

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.primary(alice, "7")
	env.farmBalances(alice,
		e18(100),
		types.MustParseAmount("10000000000000000000000"),
		types.MustParseAmount("90000000000000000000000"),
	)
	env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), amountEq(e18(260))).
		Return(e18(300), nil).Once()

	result, err := env.svc.Claim(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, result.AccountID)
	assert.Equal(t, types.TokenID("7"), result.TokenID)
	assert.Equal(t, e18(260).String(), result.Amount.String())
	assert.Equal(t, e18(300).String(), result.Score.String())

	require.Len(t, result.Contributions, 3)
	for i, expected := range []struct {
		farm  types.FarmName
		score types.Amount
	}{
		{types.FarmXref, e18(110)},
		{types.FarmShitzu, e18(70)},
		{types.FarmLp, e18(80)},
	} {
		assert.Equal(t, expected.farm, result.Contributions[i].Farm)
		assert.Equal(t, expected.score.String(), result.Contributions[i].Score.String())
		assert.False(t, result.Contributions[i].Failed)
	}

	checkpoint, err := env.svc.CheckpointOf(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.Equal(env.clock.Now()))

	claim, err := env.svc.ClaimStatus(ctx, result.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, types.ClaimStateSucceeded, claim.State)
	assert.Equal(t, "7", claim.TokenID)
	assert.Equal(t, e18(260).String(), claim.Score)
	assert.Empty(t, claim.ErrorCode)
}

func TestClaimSumsBaseCapAndMissingSeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.primary(alice, "7")
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, xrefSeed).
		Return(&types.FarmerSeed{FreeAmount: types.ZeroAmount()}, nil).Once()
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, shitzuSeed).
		Return(&types.FarmerSeed{FreeAmount: e18(1_000_000_000)}, nil).Once()
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, lpSeed).
		Return(nil, nil).Once()
	// xref base 100 + shitzu cap 100 + lp nothing
	env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), amountEq(e18(200))).
		Return(e18(200), nil).Once()

	result, err := env.svc.Claim(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, e18(200).String(), result.Amount.String())

	require.Len(t, result.Contributions, 3)
	for i, expected := range []types.Amount{e18(100), e18(100), types.ZeroAmount()} {
		assert.Equal(t, expected.String(), result.Contributions[i].Score.String())
		assert.False(t, result.Contributions[i].Failed)
	}
}

func TestClaimCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	claimOnce := func() {
		env.primary(alice, "7")
		env.farmBalances(alice, e18(0), e18(0), e18(0))
		env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), amountEq(e18(200))).
			Return(e18(200), nil).Once()

		_, err := env.svc.Claim(ctx, alice)
		require.NoError(t, err)
	}

	claimOnce()
	first := env.clock.Now()

	_, err := env.svc.Claim(ctx, alice)
	assert.True(t, types.HasCode(err, types.TooSoon))

	// the interval itself is still too soon
	env.clock.Advance(interval)
	_, err = env.svc.Claim(ctx, alice)
	assert.True(t, types.HasCode(err, types.TooSoon))

	checkpoint, err := env.svc.CheckpointOf(ctx, alice)
	require.NoError(t, err)
	assert.True(t, checkpoint.Equal(first))

	env.clock.Advance(time.Second)
	claimOnce()

	checkpoint, err = env.svc.CheckpointOf(ctx, alice)
	require.NoError(t, err)
	assert.True(t, checkpoint.Equal(env.clock.Now()))

	// rejected claims are never stored
	assert.EqualValues(t, 2, env.claimCount(t, types.ClaimStateSucceeded))
	assert.Zero(t, env.claimCount(t, types.ClaimStateFailed))

	// other accounts are not affected
	bob := randomAccount()
	env.primary(bob, "8")
	env.farmBalances(bob, e18(0), e18(0), e18(0))
	env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("8"), amountEq(e18(200))).
		Return(e18(200), nil).Once()
	_, err = env.svc.Claim(ctx, bob)
	require.NoError(t, err)
}

func TestClaimWithoutPrimaryPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.rewarder.On("PrimaryPositionOf", mock.Anything, alice).Return(nil, nil).Once()
	env.farmBalances(alice, e18(100), e18(100), e18(100))

	_, err := env.svc.Claim(ctx, alice)
	assert.True(t, types.HasCode(err, types.NoPrimaryPosition))

	checkpoint, err := env.svc.CheckpointOf(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, checkpoint)

	assert.EqualValues(t, 1, env.claimCount(t, types.ClaimStateFailed))
	assert.Zero(t, env.claimCount(t, types.ClaimStatePending))
}

func TestClaimPrimaryLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.rewarder.On("PrimaryPositionOf", mock.Anything, alice).Return(nil, errors.New("rewarder unavailable")).Once()
	env.farmBalances(alice, e18(100), e18(100), e18(100))

	_, err := env.svc.Claim(ctx, alice)
	assert.True(t, types.HasCode(err, types.ExternalCallFailed))

	checkpoint, err := env.svc.CheckpointOf(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, checkpoint, "a failed lookup allows retrying right away")
}

func TestClaimToleratesFarmFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.primary(alice, "7")
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, xrefSeed).
		Return(nil, errors.New("farm unavailable")).Once()
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, shitzuSeed).
		Return(nil, nil).Once()
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, lpSeed).
		Return(&types.FarmerSeed{FreeAmount: types.MustParseAmount("90000000000000000000000")}, nil).Once()
	env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), amountEq(e18(80))).
		Return(e18(80), nil).Once()

	result, err := env.svc.Claim(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, e18(80).String(), result.Amount.String())

	require.Len(t, result.Contributions, 3)
	assert.True(t, result.Contributions[0].Failed)
	assert.True(t, result.Contributions[0].Score.IsZero())
	assert.False(t, result.Contributions[1].Failed)
	assert.True(t, result.Contributions[1].Score.IsZero(), "an absent seed earns no base")
}

func TestClaimForwardFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	t.Run("first claim leaves no checkpoint", func(t *testing.T) {
		env.primary(alice, "7")
		env.farmBalances(alice, e18(0), e18(0), e18(0))
		env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), mock.Anything).
			Return(types.Amount{}, errors.New("receipt failed")).Once()

		_, err := env.svc.Claim(ctx, alice)
		assert.True(t, types.HasCode(err, types.ExternalCallFailed))

		checkpoint, err := env.svc.CheckpointOf(ctx, alice)
		require.NoError(t, err)
		assert.Nil(t, checkpoint)
	})

	var first time.Time
	t.Run("retry succeeds", func(t *testing.T) {
		env.primary(alice, "7")
		env.farmBalances(alice, e18(0), e18(0), e18(0))
		env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), mock.Anything).
			Return(e18(200), nil).Once()

		_, err := env.svc.Claim(ctx, alice)
		require.NoError(t, err)
		first = env.clock.Now()
	})

	t.Run("later failure restores the previous checkpoint", func(t *testing.T) {
		env.clock.Advance(interval + time.Minute)
		env.primary(alice, "7")
		env.farmBalances(alice, e18(0), e18(0), e18(0))
		env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), mock.Anything).
			Return(types.Amount{}, types.NewNothingStakedError("7 is not staked")).Once()

		_, err := env.svc.Claim(ctx, alice)
		assert.True(t, types.HasCode(err, types.NothingStaked))

		checkpoint, err := env.svc.CheckpointOf(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, checkpoint)
		assert.True(t, checkpoint.Equal(first))
	})

	assert.EqualValues(t, 2, env.claimCount(t, types.ClaimStateFailed))
	assert.EqualValues(t, 1, env.claimCount(t, types.ClaimStateSucceeded))
	assert.Zero(t, env.claimCount(t, types.ClaimStatePending))
}

func TestConcurrentClaims(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := randomAccount()

	env.rewarder.On("PrimaryPositionOf", mock.Anything, alice).
		Return(&types.PrimaryPosition{TokenID: "7", Score: types.ZeroAmount()}, nil).Maybe()
	env.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, mock.Anything).
		Return(&types.FarmerSeed{FreeAmount: types.ZeroAmount()}, nil).Maybe()
	env.rewarder.On("OnTrackScore", mock.Anything, memeseason, types.TokenID("7"), amountEq(e18(200))).
		Return(e18(200), nil).Once()

	const claims = 5
	errs := make([]error, claims)
	var wg sync.WaitGroup
	for i := range claims {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.svc.Claim(ctx, alice)
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, types.HasCode(err, types.TooSoon), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

func TestClaimValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Claim(t.Context(), "Not An Account")
	assert.True(t, types.HasCode(err, types.ValidationError))
}
