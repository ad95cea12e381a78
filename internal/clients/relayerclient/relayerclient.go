package relayerclient

import (
	"context"
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

const (
	functionCallPath = "/v1/function_call"

	apiKeyHeader         = "X-Api-Key"
	idempotencyKeyHeader = "Idempotency-Key"

	// ft_transfer and nft_transfer require exactly one yoctoNEAR attached
	oneYocto = "1"
	// 30 TGas
	defaultGas = 30_000_000_000_000

	statusSuccess = "SUCCESS"
)

type functionCallRequest struct {
	SignerID   string `json:"signer_id"`
	ReceiverID string `json:"receiver_id"`
	MethodName string `json:"method_name"`
	Args       any    `json:"args"`
	Deposit    string `json:"deposit"`
	Gas        uint64 `json:"gas"`
}

type functionCallResponse struct {
	TransactionHash string `json:"transaction_hash"`
	Status          string `json:"status"`
	Failure         string `json:"failure"`
}

type ftTransferArgs struct {
	ReceiverID string       `json:"receiver_id"`
	Amount     types.Amount `json:"amount"`
	Memo       string       `json:"memo,omitempty"`
}

type nftTransferArgs struct {
	ReceiverID string `json:"receiver_id"`
	TokenID    string `json:"token_id"`
	Memo       string `json:"memo,omitempty"`
}

// ExecutionError means the transaction landed but the receipt failed.
type ExecutionError struct {
	Method          string
	TransactionHash string
	Failure         string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed in tx %s: %s", e.Method, e.TransactionHash, e.Failure)
}

type RelayerClient struct {
	httpClient *http.Client
	cfg        *config.RelayerConfig
	signer     types.AccountID
}

func NewRelayerClient(cfg *config.RelayerConfig, signer types.AccountID) *RelayerClient {
	return &RelayerClient{
		httpClient: &http.Client{},
		cfg:        cfg,
		signer:     signer,
	}
}

func (c *RelayerClient) GetBaseURL() string {
	return c.cfg.URL
}

func (c *RelayerClient) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *RelayerClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *RelayerClient) FtTransfer(
	ctx context.Context, tokenID, receiver types.AccountID, amount types.Amount, memo string,
) error {
	args := ftTransferArgs{ReceiverID: receiver.String(), Amount: amount, Memo: memo}
	return c.functionCall(ctx, tokenID, "ft_transfer", args)
}

func (c *RelayerClient) NftTransfer(
	ctx context.Context, nftID, receiver types.AccountID, tokenID types.TokenID, memo string,
) error {
	args := nftTransferArgs{ReceiverID: receiver.String(), TokenID: tokenID.String(), Memo: memo}
	return c.functionCall(ctx, nftID, "nft_transfer", args)
}

func (c *RelayerClient) functionCall(ctx context.Context, receiver types.AccountID, method string, args any) error {
	request := &functionCallRequest{
		SignerID:   c.signer.String(),
		ReceiverID: receiver.String(),
		MethodName: method,
		Args:       args,
		Deposit:    oneYocto,
		Gas:        defaultGas,
	}
	// the same key on every attempt keeps the relayer from submitting twice
	opts := &client.HttpClientOptions{
		Path:         functionCallPath,
		TemplatePath: functionCallPath,
		Headers: map[string]string{
			apiKeyHeader:         c.cfg.APIKey,
			idempotencyKeyHeader: uuid.New().String(),
		},
	}

	call := func() (*functionCallResponse, error) {
		return client.SendRequest[functionCallRequest, functionCallResponse](ctx, c, http.MethodPost, opts, request)
	}

	resp, err := clientCallWithRetry(ctx, call, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to submit %s to %s: %w", method, receiver, err)
	}

	if resp.Status != statusSuccess {
		return &ExecutionError{Method: method, TransactionHash: resp.TransactionHash, Failure: resp.Failure}
	}

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("receiver", receiver.String()).
		Str("tx_hash", resp.TransactionHash).
		Msg("relayed function call")

	return nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.RelayerConfig,
) (T, error) {
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
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
				Msg("failed to call relayer, retrying")
		}))
}
