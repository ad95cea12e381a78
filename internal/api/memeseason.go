package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// checkpointResponse carries the last claim time in unix nanoseconds, null
// if the account never claimed.
type checkpointResponse struct {
	AccountID  types.AccountID `json:"account_id"`
	Checkpoint *int64          `json:"checkpoint"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.memeseason.Claim(r.Context(), from)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChangeFarmConfigs(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var configs types.FarmConfigs
	if err := decodeBody(r, &configs); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.memeseason.ChangeFarmConfigs(r.Context(), from, configs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFarmConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.memeseason.FarmConfigs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}

func (s *Server) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r, "account")
	if err != nil {
		writeError(w, r, err)
		return
	}

	checkpoint, err := s.memeseason.CheckpointOf(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := checkpointResponse{AccountID: account}
	if checkpoint != nil {
		nanos := checkpoint.UnixNano()
		resp.Checkpoint = &nanos
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	claim, err := s.memeseason.ClaimStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}
