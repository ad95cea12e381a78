package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/nearclient"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/spf13/cobra"
)

const defaultDumpLimit = 10

var claimStates = []types.ClaimState{
	types.ClaimStatePending,
	types.ClaimStateSucceeded,
	types.ClaimStateFailed,
}

// stateDump is what dump-state prints. Amounts are kept as decimal strings.
type stateDump struct {
	Operator         string
	Whitelist        []string
	TotalScore       string
	TotalDistributed string
	TotalDonated     string
	TotalStaked      uint64
	RewardFunds      string
	Leaderboard      []leaderboardDump
	Farms            map[string]farmDump
	Claims           map[string]int64
}

type leaderboardDump struct {
	Score    string
	TokenIDs []string
}

type farmDump struct {
	FarmID   string
	SeedID   string
	Factor   string
	Base     string
	Cap      string
	Decimals uint8
}

func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Prints totals, top of the leaderboard and farm configs",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}

	cmd.Flags().Int("limit", defaultDumpLimit, "Number of leaderboard buckets to print")
	cmd.Flags().Bool("skip-rpc", false, "Do not query the reward token balance over rpc")

	return cmd
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	skipRPC, err := cmd.Flags().GetBool("skip-rpc")
	if err != nil {
		return err
	}

	store, err := newStore(ctx, &cfg.Db)
	if err != nil {
		return err
	}

	var near nearclient.NearInterface
	if !skipRPC {
		near = nearclient.NewNearClient(&cfg.Near)
	}

	dump, err := collectState(ctx, cfg, store, near, limit)
	if err != nil {
		return err
	}

	spew.Fdump(os.Stdout, dump)
	return nil
}

// collectState reads the dump from store. near is optional.
func collectState(
	ctx context.Context, cfg *config.Config, store db.DbInterface, near nearclient.NearInterface, limit int,
) (*stateDump, error) {
	dump := &stateDump{
		Farms:  make(map[string]farmDump),
		Claims: make(map[string]int64),
	}

	operator, err := store.GetOperator(ctx)
	if err != nil && !db.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	dump.Operator = operator.String()

	whitelist, err := store.GetWhitelist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get whitelist: %w", err)
	}
	for _, account := range whitelist {
		dump.Whitelist = append(dump.Whitelist, account.String())
	}

	totals, err := store.GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}
	dump.TotalScore = totals.TotalScore.String()
	dump.TotalDistributed = totals.TotalDistributed.String()
	dump.TotalDonated = totals.TotalDonated.String()
	dump.TotalStaked = totals.TotalStaked

	buckets, err := store.TopRanking(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}
	for _, bucket := range buckets {
		entry := leaderboardDump{Score: bucket.Score.String()}
		for _, tokenID := range bucket.TokenIDs {
			entry.TokenIDs = append(entry.TokenIDs, tokenID.String())
		}
		dump.Leaderboard = append(dump.Leaderboard, entry)
	}

	configs, err := store.GetFarmConfigs(ctx)
	switch {
	case db.IsNotFoundError(err):
		log.Ctx(ctx).Warn().Msg("farm configs are not set")
	case err != nil:
		return nil, fmt.Errorf("failed to get farm configs: %w", err)
	default:
		for _, farm := range configs.List() {
			dump.Farms[string(farm.Name)] = farmDump{
				FarmID:   farm.Config.FarmID.String(),
				SeedID:   farm.Config.SeedID,
				Factor:   farm.Config.Factor.String(),
				Base:     farm.Config.Base.String(),
				Cap:      farm.Config.Cap.String(),
				Decimals: farm.Config.Decimals,
			}
		}
	}

	for _, state := range claimStates {
		count, err := store.CountClaimsByState(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("failed to count claims: %w", err)
		}
		dump.Claims[state.String()] = count
	}

	if near != nil {
		funds, err := near.FtBalanceOf(ctx, cfg.Rewarder.RewardToken, cfg.Rewarder.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to get reward funds: %w", err)
		}
		dump.RewardFunds = funds.String()
	}

	return dump, nil
}
