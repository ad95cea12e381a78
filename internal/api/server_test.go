package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/memory"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/tracing"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/memeseason"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/rewarder"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/shitzu-labs/shitzu-rewarder/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	owner            = types.AccountID("dao.shitzu.near")
	operator         = types.AccountID("operator.shitzu.near")
	rewardToken      = types.AccountID("token.0xshitzu.near")
	nft              = types.AccountID("shitzu.bodega-lab.near")
	memeseasonID     = types.AccountID("memeseason.shitzu.near")
	boostFarm        = types.AccountID("boostfarm.ref-labs.near")
	alice            = types.AccountID("alice.near")
	bob              = types.AccountID("bob.near")
	oneHundredTokens = "100000000000000000000"
)

type testServer struct {
	handler http.Handler
	relayer *mocks.RelayerInterface
	near    *mocks.NearInterface
}

func farmConfig(seed string, base uint64) types.FarmConfig {
	baseAmount, _ := types.NewAmount(base).MulUint64(1_000_000_000_000_000_000)
	return types.FarmConfig{
		FarmID:   boostFarm,
		SeedID:   seed,
		Factor:   types.MustParseAmount("1000000000000000000000000"),
		Base:     baseAmount,
		Cap:      types.MaxAmount(),
		Decimals: 18,
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	rewarderExec := executor.New("rewarder", 16)
	memeseasonExec := executor.New("memeseason", 16)
	go rewarderExec.Start(ctx)
	go memeseasonExec.Start(ctx)
	t.Cleanup(func() {
		cancel()
		rewarderExec.Stop()
		memeseasonExec.Stop()
	})

	eventConsumer := mocks.NewEventConsumer(t)
	eventConsumer.On("PushEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	ts := &testServer{
		relayer: mocks.NewRelayerInterface(t),
		near:    mocks.NewNearInterface(t),
	}

	store := memory.New()
	clock := clockwork.NewFakeClock()
	rewarderService := rewarder.NewService(&config.RewarderConfig{
		AccountID:   "rewarder.shitzu.near",
		Owner:       owner,
		Operator:    operator,
		RewardToken: rewardToken,
		Nft:         nft,
		Whitelist:   []types.AccountID{memeseasonID},
	}, store, ts.relayer, eventConsumer, rewarderExec, clock)
	memeseasonService := memeseason.NewService(&config.MemeseasonConfig{
		AccountID: memeseasonID,
		Owner:     owner,
		Interval:  16 * time.Hour,
		Farms: types.FarmConfigs{
			Xref:   farmConfig("xref", 1),
			Shitzu: farmConfig("shitzu", 2),
			Lp:     farmConfig("lp", 3),
		},
	}, store, ts.near, rewarderService, memeseasonExec, clock)

	require.NoError(t, rewarderService.Bootstrap(ctx))
	require.NoError(t, memeseasonService.Bootstrap(ctx))

	server := NewServer(&config.ServerConfig{Port: 0, RequestTimeout: 5 * time.Second}, rewarderService, memeseasonService, store)
	ts.handler = server.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, from types.AccountID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	if from != "" {
		req.Header.Set(CallerHeader, from.String())
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) stake(t *testing.T, account types.AccountID, tokenID string) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/v1/rewarder/nft_on_transfer", nft, map[string]string{
		"sender_id":         account.String(),
		"previous_owner_id": account.String(),
		"token_id":          tokenID,
		"msg":               "",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"revert":false}`, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(tracing.TraceIDHeader))
}

func TestTraceIDIsKept(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(tracing.TraceIDHeader, "trace-1")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, "trace-1", w.Header().Get(tracing.TraceIDHeader))
}

func TestStakeEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing caller", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/unstake", "", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, types.Unauthorized.String(), decode[errorResponse](t, w).ErrorCode)
	})

	t.Run("only the nft contract can stake", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/nft_on_transfer", alice, map[string]string{
			"sender_id":         alice.String(),
			"previous_owner_id": alice.String(),
			"token_id":          "1",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t,
			`{"errorCode":"UNAUTHORIZED","message":"only the nft contract can stake","revert":true}`,
			w.Body.String(),
		)
	})

	t.Run("stake", func(t *testing.T) {
		ts.stake(t, alice, "1")

		w := ts.do(t, http.MethodGet, "/v1/rewarder/primary/"+alice.String(), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token_id":"1","score":"0"}`, w.Body.String())

		w = ts.do(t, http.MethodGet, "/v1/rewarder/staker/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token_id":"1","account_id":"alice.near"}`, w.Body.String())
	})

	t.Run("second stake is rejected", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/nft_on_transfer", nft, map[string]string{
			"sender_id":         alice.String(),
			"previous_owner_id": alice.String(),
			"token_id":          "2",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, types.AlreadyStaked.String(), decode[errorResponse](t, w).ErrorCode)
	})

	t.Run("unknown account has no primary position", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/v1/rewarder/primary/"+bob.String(), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("unstake", func(t *testing.T) {
		ts.relayer.On("NftTransfer", mock.Anything, nft, alice, types.TokenID("1"), mock.Anything).Return(nil).Once()

		w := ts.do(t, http.MethodPost, "/v1/rewarder/unstake", alice, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"token_id":"1"}`, w.Body.String())

		w = ts.do(t, http.MethodPost, "/v1/rewarder/unstake", alice, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, types.NothingStaked.String(), decode[errorResponse](t, w).ErrorCode)
	})

	t.Run("events", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/v1/rewarder/events?limit=1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		events := decode[[]eventResponse](t, w)
		require.Len(t, events, 1)
		assert.Equal(t, "nft_unstaked", events[0].Event)
		assert.Equal(t, "shitzurewarder", events[0].Standard)
	})
}

func TestRewardEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.stake(t, alice, "1")

	ts.relayer.On("FtTransfer", mock.Anything, rewardToken, alice, mock.Anything, "").Return(nil).Once()
	w := ts.do(t, http.MethodPost, "/v1/rewarder/send_rewards", operator, map[string]string{
		"account_id": alice.String(),
		"amount":     oneHundredTokens,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t,
		`{"account_id":"alice.near","amount":"100000000000000000000","token_id":"1","credited":"200000000000000000000"}`,
		w.Body.String(),
	)

	w = ts.do(t, http.MethodGet, "/v1/rewarder/ft_balance_of/"+alice.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"200000000000000000000"`, w.Body.String())

	t.Run("donation from a non staker is refunded", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/ft_on_transfer", rewardToken, map[string]string{
			"sender_id": bob.String(),
			"amount":    oneHundredTokens,
			"msg":       "",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"unused":"100000000000000000000"}`, w.Body.String())
	})

	t.Run("donation from another token is refunded", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/ft_on_transfer", bob, map[string]string{
			"sender_id": alice.String(),
			"amount":    oneHundredTokens,
			"msg":       "",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, oneHundredTokens, decode[map[string]any](t, w)["unused"])
	})

	t.Run("invalid amount", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/v1/rewarder/send_rewards", operator, map[string]string{
			"account_id": alice.String(),
			"amount":     "-1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, types.ValidationError.String(), decode[errorResponse](t, w).ErrorCode)
	})

	t.Run("leaderboard", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/v1/rewarder/leaderboard?limit=5", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`[{"score":"200000000000000000000","positions":[{"token_id":"1","staker":"alice.near"}]}]`,
			w.Body.String(),
		)

		w = ts.do(t, http.MethodGet, "/v1/rewarder/leaderboard?limit=ten", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("totals", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/v1/rewarder/totals", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"total_score":"200000000000000000000","total_distributed":"100000000000000000000","total_donated":"0","total_staked":1}`,
			w.Body.String(),
		)

		w = ts.do(t, http.MethodGet, "/v1/rewarder/ft_total_supply", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `"200000000000000000000"`, w.Body.String())
	})

	t.Run("ft metadata", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/v1/rewarder/ft_metadata", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"spec":"ft-1.0.0","name":"Shit Stars","symbol":"SHITSTARS","decimals":18}`, w.Body.String())
	})
}

func TestOwnerEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/v1/rewarder/whitelist", alice, map[string]string{"account_id": bob.String()})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/rewarder/whitelist", owner, map[string]string{"account_id": bob.String()})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/rewarder/whitelist", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{memeseasonID.String(), bob.String()}, decode[[]string](t, w))

	w = ts.do(t, http.MethodDelete, "/v1/rewarder/whitelist/"+bob.String(), owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/v1/rewarder/whitelist", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{memeseasonID.String()}, decode[[]string](t, w))

	w = ts.do(t, http.MethodPost, "/v1/rewarder/operator", owner, map[string]string{"account_id": bob.String()})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/rewarder/on_track_score", bob, map[string]string{"token_id": "1", "amount": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/v1/rewarder/whitelist", owner, map[string]any{"account_id": bob.String(), "extra": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMemeseasonEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.stake(t, alice, "7")

	ts.near.On("GetFarmerSeed", mock.Anything, boostFarm, alice, mock.Anything).
		Return(&types.FarmerSeed{FreeAmount: types.ZeroAmount()}, nil).Times(3)

	w := ts.do(t, http.MethodPost, "/v1/memeseason/claim", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// bases of 1, 2 and 3 tokens
	result := decode[memeseason.ClaimResult](t, w)
	assert.Equal(t, "6000000000000000000", result.Amount.String())
	assert.Equal(t, "6000000000000000000", result.Score.String())
	assert.Equal(t, types.TokenID("7"), result.TokenID)

	w = ts.do(t, http.MethodGet, "/v1/rewarder/score/7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token_id":"7","score":"6000000000000000000"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/v1/memeseason/claims/"+result.ClaimID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SUCCEEDED", decode[map[string]any](t, w)["state"])

	w = ts.do(t, http.MethodGet, "/v1/memeseason/checkpoint/"+alice.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[checkpointResponse](t, w).Checkpoint)

	w = ts.do(t, http.MethodGet, "/v1/memeseason/checkpoint/"+bob.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":"bob.near","checkpoint":null}`, w.Body.String())

	w = ts.do(t, http.MethodPost, "/v1/memeseason/claim", alice, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, types.TooSoon.String(), decode[errorResponse](t, w).ErrorCode)

	w = ts.do(t, http.MethodGet, "/v1/memeseason/claims/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("farm configs", func(t *testing.T) {
		configs := types.FarmConfigs{
			Xref:   farmConfig("xref", 10),
			Shitzu: farmConfig("shitzu", 20),
			Lp:     farmConfig("lp", 30),
		}

		w := ts.do(t, http.MethodPut, "/v1/memeseason/farm_configs", alice, configs)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = ts.do(t, http.MethodPut, "/v1/memeseason/farm_configs", owner, configs)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = ts.do(t, http.MethodGet, "/v1/memeseason/farm_configs", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fmt.Sprintf("%d000000000000000000", 30), decode[types.FarmConfigs](t, w).Lp.Base.String())
	})
}
