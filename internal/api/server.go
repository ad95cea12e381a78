package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/memeseason"
	"github.com/shitzu-labs/shitzu-rewarder/internal/services/rewarder"
)

const (
	// CallerHeader carries the account the request acts for. It is set by
	// the gateway that authenticated the request.
	CallerHeader = "X-Caller-Id"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes both ledgers over http.
type Server struct {
	cfg        *config.ServerConfig
	rewarder   *rewarder.Service
	memeseason *memeseason.Service
	db         pinger
}

func NewServer(
	cfg *config.ServerConfig,
	rewarderService *rewarder.Service,
	memeseasonService *memeseason.Service,
	db pinger,
) *Server {
	return &Server{
		cfg:        cfg,
		rewarder:   rewarderService,
		memeseason: memeseasonService,
		db:         db,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(traceMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/v1/rewarder", func(r chi.Router) {
		r.Post("/nft_on_transfer", s.handleNftOnTransfer)
		r.Post("/unstake", s.handleUnstake)
		r.Post("/send_rewards", s.handleSendRewards)
		r.Post("/ft_on_transfer", s.handleFtOnTransfer)
		r.Post("/on_track_score", s.handleOnTrackScore)
		r.Post("/whitelist", s.handleAddToWhitelist)
		r.Delete("/whitelist/{account}", s.handleRemoveFromWhitelist)
		r.Post("/operator", s.handleSetOperator)

		r.Get("/score/{token}", s.handleScore)
		r.Get("/primary/{account}", s.handlePrimaryPosition)
		r.Get("/staker/{token}", s.handleStaker)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/ft_total_supply", s.handleFtTotalSupply)
		r.Get("/ft_balance_of/{account}", s.handleFtBalanceOf)
		r.Get("/ft_metadata", s.handleFtMetadata)
		r.Get("/totals", s.handleTotals)
		r.Get("/whitelist", s.handleWhitelist)
		r.Get("/events", s.handleEvents)
	})

	r.Route("/v1/memeseason", func(r chi.Router) {
		r.Post("/claim", s.handleClaim)
		r.Put("/farm_configs", s.handleChangeFarmConfigs)
		r.Get("/farm_configs", s.handleFarmConfigs)
		r.Get("/checkpoint/{account}", s.handleCheckpoint)
		r.Get("/claims/{id}", s.handleClaimStatus)
	})

	return r
}

// Start serves the api until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Ctx(ctx).Info().Msgf("Starting api server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	log.Ctx(ctx).Info().Msg("Shutting down api server")
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
