package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := types.AsError(err)
	logError(r, apiErr)
	writeJSON(w, apiErr.StatusCode, newErrorResponse(apiErr))
}

func newErrorResponse(err *types.Error) errorResponse {
	return errorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   err.Error(),
	}
}

func logError(r *http.Request, err *types.Error) {
	event := log.Ctx(r.Context()).Warn()
	if err.StatusCode >= http.StatusInternalServerError {
		event = log.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Str("error_code", err.ErrorCode.String()).
		Str("path", r.URL.Path).
		Msg("request failed")
}

// caller returns the account the request acts for.
func caller(r *http.Request) (types.AccountID, error) {
	header := r.Header.Get(CallerHeader)
	if header == "" {
		return "", types.NewUnauthorizedError(fmt.Sprintf("missing %s header", CallerHeader))
	}
	account := types.AccountID(header)
	if err := account.Validate(); err != nil {
		return "", types.NewValidationFailedError(err)
	}
	return account, nil
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return types.NewValidationFailedError(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func accountParam(r *http.Request, name string) (types.AccountID, error) {
	account := types.AccountID(chi.URLParam(r, name))
	if err := account.Validate(); err != nil {
		return "", types.NewValidationFailedError(err)
	}
	return account, nil
}

func tokenParam(r *http.Request, name string) (types.TokenID, error) {
	tokenID := types.TokenID(chi.URLParam(r, name))
	if err := tokenID.Validate(); err != nil {
		return "", types.NewValidationFailedError(err)
	}
	return tokenID, nil
}

// limitQuery parses the optional limit query parameter, 0 when absent.
func limitQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, types.NewValidationFailedError(fmt.Errorf("invalid limit %q", raw))
	}
	return limit, nil
}
