package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"mintpass/internal/platform/middleware"
	"mintpass/internal/registry/service"
	"mintpass/pkg/domerrors"
	"mintpass/pkg/platform/httputil"
)

type mintRequest struct {
	Payment string `json:"payment"`
}

type mintResponse struct {
	TokenID uint64 `json:"tokenId"`
	Price   string `json:"price"`
	Refund  string `json:"refund"`
}

type issueTokenRequest struct {
	Wallet string `json:"wallet"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type pointsResponse struct {
	TokenID uint64 `json:"tokenId"`
	Points  uint64 `json:"points"`
}

type accessResponse struct {
	TokenID     uint64 `json:"tokenId"`
	AccessLevel uint64 `json:"accessLevel"`
}

type airdropResponse struct {
	TokenID    uint64 `json:"tokenId"`
	Eligible   bool   `json:"eligible"`
	Multiplier uint64 `json:"multiplier"`
}

type walletPointsResponse struct {
	Address string `json:"address"`
	Points  uint64 `json:"points"`
}

type walletMintedResponse struct {
	Address string `json:"address"`
	Minted  bool   `json:"minted"`
}

type registryInfoResponse struct {
	MintingEnabled bool   `json:"mintingEnabled"`
	ClaimEnabled   bool   `json:"claimEnabled"`
	UnitPrice      string `json:"unitPrice"`
	Issued         uint64 `json:"issued"`
	MaxSupply      uint64 `json:"maxSupply"`
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, ok := h.callerWallet(w, r)
	if !ok {
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domerrors.New(domerrors.CodeBadRequest, "invalid request body"))
		return
	}
	payment, err := service.ParseAmount(req.Payment)
	if err != nil {
		httputil.WriteError(w, domerrors.Newf(domerrors.CodeBadRequest, "invalid payment amount %q", req.Payment))
		return
	}

	res, err := h.registry.Mint(ctx, wallet, payment)
	if err != nil {
		h.logger.WarnContext(ctx, "mint rejected",
			"request_id", middleware.GetRequestID(ctx),
			"wallet", wallet,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, mintResponse{
		TokenID: uint64(res.TokenID),
		Price:   res.Price.Dec(),
		Refund:  res.Refund.Dec(),
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, ok := h.callerWallet(w, r)
	if !ok {
		return
	}
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.ClaimTokens(ctx, wallet, id); err != nil {
		h.logger.WarnContext(ctx, "claim rejected",
			"request_id", middleware.GetRequestID(ctx),
			"wallet", wallet,
			"token_id", uint64(id),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetPass(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pass, err := h.registry.GetPassData(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pass)
}

func (h *Handler) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	points, err := h.registry.GetPoints(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pointsResponse{TokenID: uint64(id), Points: points})
}

func (h *Handler) handleGetAccess(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	level, err := h.registry.CheckAccess(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, accessResponse{TokenID: uint64(id), AccessLevel: level})
}

func (h *Handler) handleGetAirdrop(w http.ResponseWriter, r *http.Request) {
	id, err := tokenIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	eligible, multiplier, err := h.registry.IsAirdropEligible(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, airdropResponse{
		TokenID:    uint64(id),
		Eligible:   eligible,
		Multiplier: multiplier,
	})
}

func (h *Handler) handleWalletPoints(w http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	points, err := h.registry.GetWalletPoints(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, walletPointsResponse{Address: string(addr), Points: points})
}

func (h *Handler) handleWalletMinted(w http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minted, err := h.registry.HasMinted(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, walletMintedResponse{Address: string(addr), Minted: minted})
}

func (h *Handler) handleRegistryInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.registry.RegistryInfo(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, registryInfoResponse{
		MintingEnabled: info.MintingEnabled,
		ClaimEnabled:   info.ClaimEnabled,
		UnitPrice:      info.UnitPrice.Dec(),
		Issued:         info.Issued,
		MaxSupply:      info.MaxSupply,
	})
}

// devTokenTTL bounds dev-issued identity tokens.
const devTokenTTL = time.Hour

func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Wallet == "" {
		httputil.WriteError(w, domerrors.New(domerrors.CodeBadRequest, "wallet is required"))
		return
	}

	token, err := h.issuer.GenerateWalletToken(req.Wallet, devTokenTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue dev token", "error", err)
		httputil.WriteError(w, domerrors.Wrap(err, domerrors.CodeInternal, "token issuance failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, issueTokenResponse{
		Token:     token,
		ExpiresIn: int64(devTokenTTL.Seconds()),
	})
}
