package handler

import (
	"encoding/json"
	"net/http"

	"mintpass/internal/platform/middleware"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/service"
	"mintpass/pkg/domerrors"
	"mintpass/pkg/platform/httputil"
)

type awardPointsRequest struct {
	Amount uint64 `json:"amount"`
}

type awardPointsResponse struct {
	TokenID uint64 `json:"tokenId"`
	Points  uint64 `json:"points"`
}

type awardPointsBatchRequest struct {
	TokenIDs []uint64 `json:"tokenIds"`
	Amounts  []uint64 `json:"amounts"`
}

type awardPointsBatchResponse struct {
	TokenIDs []uint64 `json:"tokenIds"`
	Points   []uint64 `json:"points"`
}

type setAccessRequest struct {
	Level uint64 `json:"level"`
}

type setAirdropRequest struct {
	Eligible   bool   `json:"eligible"`
	Multiplier uint64 `json:"multiplier"`
}

type setAirdropBatchRequest struct {
	TokenIDs    []uint64 `json:"tokenIds"`
	Eligible    []bool   `json:"eligible"`
	Multipliers []uint64 `json:"multipliers"`
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

type setPriceRequest struct {
	Price string `json:"price"`
}

type withdrawResponse struct {
	Amount string `json:"amount"`
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domerrors.New(domerrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}

func toTokenIDs(raw []uint64) []models.TokenID {
	ids := make([]models.TokenID, len(raw))
	for i, v := range raw {
		ids[i] = models.TokenID(v)
	}
	return ids
}

// adminError logs and renders a failed admin operation.
func (h *Handler) adminError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.WarnContext(r.Context(), "admin operation rejected",
		"request_id", middleware.GetRequestID(r.Context()),
		"operation", op,
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}

func (h *Handler) handleAwardPoints(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeBody[awardPointsRequest](w, r)
	if !ok {
		return
	}

	total, err := h.registry.AwardPoints(r.Context(), h.adminWallet, id, req.Amount)
	if err != nil {
		h.adminError(w, r, "award_points", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, awardPointsResponse{TokenID: uint64(id), Points: total})
}

func (h *Handler) handleAwardPointsBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[awardPointsBatchRequest](w, r)
	if !ok {
		return
	}

	totals, err := h.registry.AwardPointsBatch(r.Context(), h.adminWallet, toTokenIDs(req.TokenIDs), req.Amounts)
	if err != nil {
		h.adminError(w, r, "award_points_batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, awardPointsBatchResponse{TokenIDs: req.TokenIDs, Points: totals})
}

func (h *Handler) handleSetAccess(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeBody[setAccessRequest](w, r)
	if !ok {
		return
	}

	if err := h.registry.SetAccessLevel(r.Context(), h.adminWallet, id, req.Level); err != nil {
		h.adminError(w, r, "set_access_level", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetAirdrop(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeBody[setAirdropRequest](w, r)
	if !ok {
		return
	}

	if err := h.registry.SetAirdropEligibility(r.Context(), h.adminWallet, id, req.Eligible, req.Multiplier); err != nil {
		h.adminError(w, r, "set_airdrop_eligibility", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetAirdropBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[setAirdropBatchRequest](w, r)
	if !ok {
		return
	}

	err := h.registry.SetAirdropEligibilityBatch(r.Context(), h.adminWallet,
		toTokenIDs(req.TokenIDs), req.Eligible, req.Multipliers)
	if err != nil {
		h.adminError(w, r, "set_airdrop_eligibility_batch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetMinting(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[toggleRequest](w, r)
	if !ok {
		return
	}
	if err := h.registry.SetMintingEnabled(r.Context(), h.adminWallet, req.Enabled); err != nil {
		h.adminError(w, r, "set_minting_enabled", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetClaiming(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[toggleRequest](w, r)
	if !ok {
		return
	}
	if err := h.registry.SetTokenClaimEnabled(r.Context(), h.adminWallet, req.Enabled); err != nil {
		h.adminError(w, r, "set_claim_enabled", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[setPriceRequest](w, r)
	if !ok {
		return
	}
	price, err := service.ParseAmount(req.Price)
	if err != nil {
		httputil.WriteError(w, domerrors.Newf(domerrors.CodeInvalidPrice, "invalid price %q", req.Price))
		return
	}

	if err := h.registry.SetMintPrice(r.Context(), h.adminWallet, price); err != nil {
		h.adminError(w, r, "set_mint_price", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResetRestriction(w http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.ResetMintRestriction(r.Context(), h.adminWallet, addr); err != nil {
		h.adminError(w, r, "reset_mint_restriction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	amount, err := h.registry.Withdraw(r.Context(), h.adminWallet)
	if err != nil {
		h.adminError(w, r, "withdraw", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withdrawResponse{Amount: amount.Dec()})
}
