package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

const defaultEventsLimit = 50

type nftOnTransferRequest struct {
	SenderID        types.AccountID `json:"sender_id"`
	PreviousOwnerID types.AccountID `json:"previous_owner_id"`
	TokenID         types.TokenID   `json:"token_id"`
	Msg             string          `json:"msg"`
}

type nftOnTransferResponse struct {
	Revert bool `json:"revert"`
}

type ftOnTransferRequest struct {
	SenderID types.AccountID `json:"sender_id"`
	Amount   types.Amount    `json:"amount"`
	Msg      string          `json:"msg"`
}

type ftOnTransferResponse struct {
	Unused types.Amount `json:"unused"`
}

// callbackErrorResponse keeps the protocol return value next to the error so
// the collaborator can refund.
type callbackErrorResponse struct {
	errorResponse
	Revert *bool         `json:"revert,omitempty"`
	Unused *types.Amount `json:"unused,omitempty"`
}

type sendRewardsRequest struct {
	AccountID types.AccountID `json:"account_id"`
	Amount    types.Amount    `json:"amount"`
}

type trackScoreRequest struct {
	TokenID types.TokenID `json:"token_id"`
	Amount  types.Amount  `json:"amount"`
}

type accountRequest struct {
	AccountID types.AccountID `json:"account_id"`
}

type unstakeResponse struct {
	TokenID types.TokenID `json:"token_id"`
}

type scoreResponse struct {
	TokenID types.TokenID `json:"token_id"`
	Score   types.Amount  `json:"score"`
}

type stakerResponse struct {
	TokenID   types.TokenID    `json:"token_id"`
	AccountID *types.AccountID `json:"account_id"`
}

type eventResponse struct {
	Standard  string          `json:"standard"`
	Version   string          `json:"version"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

func newEventResponse(doc model.EventDocument) eventResponse {
	return eventResponse{
		Standard:  doc.Standard,
		Version:   doc.Version,
		Event:     doc.Event,
		Data:      json.RawMessage(doc.Data),
		CreatedAt: doc.CreatedAt,
	}
}

func (s *Server) handleNftOnTransfer(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req nftOnTransferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	revert, err := s.rewarder.Stake(r.Context(), from, req.SenderID, req.PreviousOwnerID, req.TokenID, req.Msg)
	if err != nil {
		apiErr := types.AsError(err)
		logError(r, apiErr)
		writeJSON(w, apiErr.StatusCode, callbackErrorResponse{
			errorResponse: newErrorResponse(apiErr),
			Revert:        &revert,
		})
		return
	}
	writeJSON(w, http.StatusOK, nftOnTransferResponse{Revert: revert})
}

func (s *Server) handleFtOnTransfer(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ftOnTransferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	unused, err := s.rewarder.OnDonation(r.Context(), from, req.SenderID, req.Amount, req.Msg)
	if err != nil {
		apiErr := types.AsError(err)
		logError(r, apiErr)
		writeJSON(w, apiErr.StatusCode, callbackErrorResponse{
			errorResponse: newErrorResponse(apiErr),
			Unused:        &unused,
		})
		return
	}
	writeJSON(w, http.StatusOK, ftOnTransferResponse{Unused: unused})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tokenID, err := s.rewarder.Unstake(r.Context(), from)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unstakeResponse{TokenID: tokenID})
}

func (s *Server) handleSendRewards(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sendRewardsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sent, err := s.rewarder.SendRewards(r.Context(), from, req.AccountID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (s *Server) handleOnTrackScore(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req trackScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	score, err := s.rewarder.OnTrackScore(r.Context(), from, req.TokenID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{TokenID: req.TokenID, Score: score})
}

func (s *Server) handleAddToWhitelist(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.rewarder.AddToWhitelist(r.Context(), from, req.AccountID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromWhitelist(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	account, err := accountParam(r, "account")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.rewarder.RemoveFromWhitelist(r.Context(), from, account); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.rewarder.SetOperator(r.Context(), from, req.AccountID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenParam(r, "token")
	if err != nil {
		writeError(w, r, err)
		return
	}

	score, err := s.rewarder.ScoreOf(r.Context(), tokenID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{TokenID: tokenID, Score: score})
}

// handlePrimaryPosition answers null for an account without a staked nft.
func (s *Server) handlePrimaryPosition(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r, "account")
	if err != nil {
		writeError(w, r, err)
		return
	}

	position, err := s.rewarder.PrimaryPositionOf(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, position)
}

func (s *Server) handleStaker(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenParam(r, "token")
	if err != nil {
		writeError(w, r, err)
		return
	}

	staker, err := s.rewarder.StakerOf(r.Context(), tokenID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stakerResponse{TokenID: tokenID, AccountID: staker})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := limitQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	leaderboard, err := s.rewarder.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboard)
}

func (s *Server) handleFtTotalSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := s.rewarder.FtTotalSupply(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supply)
}

func (s *Server) handleFtBalanceOf(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r, "account")
	if err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := s.rewarder.FtBalanceOf(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleFtMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rewarder.FtMetadata())
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.rewarder.Totals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	whitelist, err := s.rewarder.Whitelist(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if whitelist == nil {
		whitelist = []types.AccountID{}
	}
	writeJSON(w, http.StatusOK, whitelist)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := limitQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit == 0 {
		limit = defaultEventsLimit
	}

	docs, err := s.rewarder.LatestEvents(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	events := make([]eventResponse, len(docs))
	for i, doc := range docs {
		events[i] = newEventResponse(doc)
	}
	writeJSON(w, http.StatusOK, events)
}
