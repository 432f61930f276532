package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "mintpass/pkg/domerrors"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeUnauthorized:        http.StatusUnauthorized,
	dErrors.CodeTokenNotFound:       http.StatusNotFound,
	dErrors.CodeNotTokenOwner:       http.StatusForbidden,
	dErrors.CodeMintingDisabled:     http.StatusForbidden,
	dErrors.CodeClaimingDisabled:    http.StatusForbidden,
	dErrors.CodeInsufficientPayment: http.StatusPaymentRequired,
	dErrors.CodeSupplyExhausted:     http.StatusConflict,
	dErrors.CodeAlreadyMinted:       http.StatusConflict,
	dErrors.CodeAlreadyClaimed:      http.StatusConflict,
	dErrors.CodeNoFunds:             http.StatusConflict,
	dErrors.CodeReentrantCall:       http.StatusConflict,
	dErrors.CodeMultiplierTooLow:    http.StatusBadRequest,
	dErrors.CodeInvalidPrice:        http.StatusBadRequest,
	dErrors.CodeLengthMismatch:      http.StatusBadRequest,
	dErrors.CodeBadRequest:          http.StatusBadRequest,
	dErrors.CodeInternal:            http.StatusInternalServerError,
}

// WriteError renders a domain error as the standard error body. Unknown or
// internal errors collapse to a bare 500 so storage details never leak to
// callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		code = dErrors.CodeInternal
		status = http.StatusInternalServerError
	}

	resp := errorResponse{Error: string(code)}
	if status != http.StatusInternalServerError {
		resp.Description = dErrors.MessageOf(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON renders v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
