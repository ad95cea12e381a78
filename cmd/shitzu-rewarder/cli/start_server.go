package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/api"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/nearclient"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/relayerclient"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/tracing"
	"github.com/shitzu-labs/shitzu-rewarder/internal/queue"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/memeseason"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/rewarder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the shitzu rewarder server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	store, err := newStore(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating store")
	}

	// Create a basic zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating zap logger")
	}
	defer func() {
		// syncing stderr fails on some platforms, nothing to do about it
		_ = zapLogger.Sync()
	}()

	queueManager, err := queue.NewQueueManager(&cfg.Queue, zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize event publisher")
	}
	if err := queueManager.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start event publisher")
	}
	defer queueManager.Shutdown()

	var nearClient nearclient.NearInterface = nearclient.NewNearClient(&cfg.Near)
	nearClient = nearclient.NewNearClientWithMetrics(nearClient)

	var relayerClient relayerclient.RelayerInterface = relayerclient.NewRelayerClient(&cfg.Relayer, cfg.Rewarder.AccountID)
	relayerClient = relayerclient.NewRelayerClientWithMetrics(relayerClient)

	rewarderExec := executor.New("rewarder", cfg.Executor.QueueSize)
	memeseasonExec := executor.New("memeseason", cfg.Executor.QueueSize)
	go rewarderExec.Start(ctx)
	go memeseasonExec.Start(ctx)
	defer rewarderExec.Stop()
	defer memeseasonExec.Stop()

	clock := clockwork.NewRealClock()
	rewarderService := rewarder.NewService(&cfg.Rewarder, store, relayerClient, queueManager, rewarderExec, clock)
	// memeseason reaches the rewarder in process, like any other whitelisted score source
	memeseasonService := memeseason.NewService(&cfg.Memeseason, store, nearClient, rewarderService, memeseasonExec, clock)

	if err := bootstrap(ctx, rewarderService, memeseasonService); err != nil {
		log.Fatal().Err(err).Msg("error while bootstrapping ledgers")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	rewarderService.StartStatsPoller(ctx, cfg.Poller.StatsPollingInterval)
	memeseasonService.StartStatsPoller(ctx, cfg.Poller.StatsPollingInterval)

	server := api.NewServer(&cfg.Server, rewarderService, memeseasonService, store)
	return server.Start(ctx)
}

func bootstrap(ctx context.Context, rewarderService *rewarder.Service, memeseasonService *memeseason.Service) error {
	if err := rewarderService.Bootstrap(ctx); err != nil {
		return fmt.Errorf("rewarder: %w", err)
	}
	if err := memeseasonService.Bootstrap(ctx); err != nil {
		return fmt.Errorf("memeseason: %w", err)
	}
	return nil
}
