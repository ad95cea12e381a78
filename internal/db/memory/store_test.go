package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/memory"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomToken() types.TokenID {
	return types.TokenID(gofakeit.DigitN(6))
}

func randomAccount() types.AccountID {
	return types.AccountID(gofakeit.LetterN(8) + ".near")
}

func TestRanking(t *testing.T) {
	ctx := t.Context()
	store := memory.New()

	a, b, c := types.TokenID("a"), types.TokenID("b"), types.TokenID("c")
	require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(10), a))
	require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(10), b))
	require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(5), c))
	require.NoError(t, store.AppendToRanking(ctx, types.MaxAmount(), "max"))

	t.Run("highest first, insertion order inside bucket", func(t *testing.T) {
		buckets, err := store.TopRanking(ctx, 10)
		require.NoError(t, err)
		require.Len(t, buckets, 3)

		assert.True(t, buckets[0].Score.Equal(types.MaxAmount()))
		assert.Equal(t, []types.TokenID{a, b}, buckets[1].TokenIDs)
		assert.Equal(t, []types.TokenID{c}, buckets[2].TokenIDs)
	})
	t.Run("limit", func(t *testing.T) {
		buckets, err := store.TopRanking(ctx, 1)
		require.NoError(t, err)
		require.Len(t, buckets, 1)
	})
	t.Run("empty bucket is deleted", func(t *testing.T) {
		require.NoError(t, store.RemoveFromRanking(ctx, types.NewAmount(5), c))
		buckets, err := store.TopRanking(ctx, 10)
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		for _, bucket := range buckets {
			assert.NotEmpty(t, bucket.TokenIDs)
		}
	})
	t.Run("remove unknown position", func(t *testing.T) {
		err := store.RemoveFromRanking(ctx, types.NewAmount(10), c)
		assert.True(t, db.IsNotFoundError(err))
	})
}

func TestStakes(t *testing.T) {
	ctx := t.Context()
	store := memory.New()
	account, token := randomAccount(), randomToken()

	_, err := store.GetStakedToken(ctx, account)
	assert.True(t, db.IsNotFoundError(err))

	require.NoError(t, store.SaveStake(ctx, account, token))

	staked, err := store.GetStakedToken(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, token, staked)
	staker, err := store.GetStaker(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, account, staker)

	t.Run("either side already bound", func(t *testing.T) {
		err := store.SaveStake(ctx, account, randomToken())
		assert.True(t, db.IsDuplicateKeyError(err))
		err = store.SaveStake(ctx, randomAccount(), token)
		assert.True(t, db.IsDuplicateKeyError(err))
	})
	t.Run("delete removes both sides", func(t *testing.T) {
		require.NoError(t, store.DeleteStake(ctx, account, token))
		_, err := store.GetStakedToken(ctx, account)
		assert.True(t, db.IsNotFoundError(err))
		_, err = store.GetStaker(ctx, token)
		assert.True(t, db.IsNotFoundError(err))

		err = store.DeleteStake(ctx, account, token)
		assert.True(t, db.IsNotFoundError(err))
	})
}

func TestWithTransaction(t *testing.T) {
	ctx := t.Context()
	store := memory.New()
	account, token := randomAccount(), randomToken()

	require.NoError(t, store.SetScore(ctx, token, types.NewAmount(5)))
	require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(5), token))
	require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(5), "other"))

	failure := errors.New("abort")
	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.SetScore(ctx, token, types.NewAmount(8)))
		require.NoError(t, store.RemoveFromRanking(ctx, types.NewAmount(5), token))
		require.NoError(t, store.AppendToRanking(ctx, types.NewAmount(8), token))
		require.NoError(t, store.SaveStake(ctx, account, token))
		require.NoError(t, store.SaveTotals(ctx, &model.Totals{TotalScore: types.NewAmount(8), TotalStaked: 1}))
		require.NoError(t, store.SetCheckpoint(ctx, account, time.Unix(100, 0)))
		require.NoError(t, store.AddToWhitelist(ctx, account))
		require.NoError(t, store.SaveEvent(ctx, &model.EventDocument{Event: "nft_staked"}))
		return failure
	})
	require.ErrorIs(t, err, failure)

	score, err := store.GetScore(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "5", score.String())

	buckets, err := store.TopRanking(ctx, 10)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	// original position in the bucket is restored
	assert.Equal(t, []types.TokenID{token, "other"}, buckets[0].TokenIDs)

	_, err = store.GetStakedToken(ctx, account)
	assert.True(t, db.IsNotFoundError(err))

	totals, err := store.GetTotals(ctx)
	require.NoError(t, err)
	assert.True(t, totals.TotalScore.IsZero())
	assert.Zero(t, totals.TotalStaked)

	_, err = store.GetCheckpoint(ctx, account)
	assert.True(t, db.IsNotFoundError(err))

	whitelisted, err := store.IsWhitelisted(ctx, account)
	require.NoError(t, err)
	assert.False(t, whitelisted)

	events, err := store.GetLatestEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	t.Run("commit keeps writes", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(ctx context.Context) error {
			// nested transactions join the outer one
			return store.WithTransaction(ctx, func(ctx context.Context) error {
				return store.SaveStake(ctx, account, token)
			})
		})
		require.NoError(t, err)

		staked, err := store.GetStakedToken(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, token, staked)
	})
}

func TestClaims(t *testing.T) {
	ctx := t.Context()
	store := memory.New()

	claim := &model.ClaimDocument{
		ID:        gofakeit.UUID(),
		AccountID: randomAccount().String(),
		State:     types.ClaimStatePending,
	}
	require.NoError(t, store.SaveClaim(ctx, claim))
	assert.True(t, db.IsDuplicateKeyError(store.SaveClaim(ctx, claim)))

	pending, err := store.CountClaimsByState(ctx, types.ClaimStatePending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	resolved := *claim
	resolved.State = types.ClaimStateSucceeded
	require.NoError(t, store.UpdateClaim(ctx, &resolved))

	// final claims cannot change again
	failed := resolved
	failed.State = types.ClaimStateFailed
	assert.True(t, db.IsNotFoundError(store.UpdateClaim(ctx, &failed)))

	got, err := store.GetClaim(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ClaimStateSucceeded, got.State)

	_, err = store.GetClaim(ctx, gofakeit.UUID())
	assert.True(t, db.IsNotFoundError(err))
}

func TestFarmConfigs(t *testing.T) {
	ctx := t.Context()
	store := memory.New()

	_, err := store.GetFarmConfigs(ctx)
	assert.True(t, db.IsNotFoundError(err))

	configs := &types.FarmConfigs{
		Xref: types.FarmConfig{FarmID: "boostfarm.ref-labs.near", SeedID: "xref", Decimals: 18},
	}
	require.NoError(t, store.SaveFarmConfigs(ctx, configs))

	// callers cannot mutate stored configs
	configs.Xref.SeedID = "changed"
	got, err := store.GetFarmConfigs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "xref", got.Xref.SeedID)
}
