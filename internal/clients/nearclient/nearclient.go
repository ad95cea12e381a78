package nearclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/client"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type NearClient struct {
	httpClient *http.Client
	cfg        *config.NearConfig
}

func NewNearClient(cfg *config.NearConfig) *NearClient {
	return &NearClient{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *NearClient) GetBaseURL() string {
	return c.cfg.RPCAddr
}

func (c *NearClient) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *NearClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *NearClient) GetFarmerSeed(
	ctx context.Context, farmID, farmer types.AccountID, seedID string,
) (*types.FarmerSeed, error) {
	args := farmerSeedArgs{FarmerID: farmer.String(), SeedID: seedID}

	// the farm answers null for a farmer without the seed
	var seed *types.FarmerSeed
	if err := c.viewCall(ctx, farmID, methodGetFarmerSeed, args, &seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (c *NearClient) FtBalanceOf(ctx context.Context, tokenID, account types.AccountID) (types.Amount, error) {
	var balance types.Amount
	if err := c.viewCall(ctx, tokenID, methodFtBalanceOf, ftBalanceOfArgs{AccountID: account.String()}, &balance); err != nil {
		return types.Amount{}, err
	}
	return balance, nil
}

// viewCall runs method on contract with json args and decodes the json the
// contract returned into out.
func (c *NearClient) viewCall(ctx context.Context, contract types.AccountID, method string, args any, out any) error {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal %s args: %w", method, err)
	}

	request := &rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      uuid.New().String(),
		Method:  queryMethod,
		Params: callFuncRequest{
			RequestType: requestTypeCallFunc,
			Finality:    finalityFinal,
			AccountID:   contract.String(),
			MethodName:  method,
			ArgsBase64:  base64.StdEncoding.EncodeToString(argsJSON),
		},
	}

	callForResult := func() ([]byte, error) {
		opts := &client.HttpClientOptions{
			Path:         "",
			TemplatePath: "/" + method,
		}
		resp, err := client.SendRequest[rpcRequest, rpcResponse](ctx, c, http.MethodPost, opts, request)
		if err != nil {
			return nil, err
		}
		return c.unwrapResult(contract, method, resp)
	}

	raw, err := clientCallWithRetry(ctx, callForResult, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to call %s on %s: %w", method, contract, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func (c *NearClient) unwrapResult(contract types.AccountID, method string, resp *rpcResponse) ([]byte, error) {
	if resp.Error != nil {
		// contract execution errors are reported as handler errors
		if resp.Error.Name == errorNameHandlerError {
			return nil, &ContractError{Contract: contract.String(), Method: method, Message: resp.Error.Message}
		}
		return nil, resp.Error
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("empty rpc result for %s", method)
	}
	if resp.Result.Error != "" {
		return nil, &ContractError{Contract: contract.String(), Method: method, Message: resp.Result.Error}
	}
	return resp.Result.bytes()
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.NearConfig,
) (T, error) {
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var contractErr *ContractError
			if errors.As(err, &contractErr) {
				return false
			}
			var httpErr *client.HttpError
			if errors.As(err, &httpErr) {
				return httpErr.IsRetryable()
			}
			return true
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call near rpc, retrying")
		}))
}
