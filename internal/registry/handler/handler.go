package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"mintpass/internal/platform/metrics"
	"mintpass/internal/platform/middleware"
	"mintpass/internal/registry/models"
	"mintpass/internal/registry/service"
	"mintpass/pkg/domerrors"
	"mintpass/pkg/platform/httputil"
)

// Service defines the registry operations the HTTP layer depends on.
type Service interface {
	Mint(ctx context.Context, recipient models.Address, payment *uint256.Int) (*service.MintResult, error)
	ClaimTokens(ctx context.Context, caller models.Address, id models.TokenID) error

	AwardPoints(ctx context.Context, caller models.Address, id models.TokenID, amount uint64) (uint64, error)
	AwardPointsBatch(ctx context.Context, caller models.Address, ids []models.TokenID, amounts []uint64) ([]uint64, error)
	SetAccessLevel(ctx context.Context, caller models.Address, id models.TokenID, level uint64) error
	SetAirdropEligibility(ctx context.Context, caller models.Address, id models.TokenID, eligible bool, multiplier uint64) error
	SetAirdropEligibilityBatch(ctx context.Context, caller models.Address, ids []models.TokenID, eligible []bool, multipliers []uint64) error
	SetMintingEnabled(ctx context.Context, caller models.Address, enabled bool) error
	SetTokenClaimEnabled(ctx context.Context, caller models.Address, enabled bool) error
	SetMintPrice(ctx context.Context, caller models.Address, price *uint256.Int) error
	ResetMintRestriction(ctx context.Context, caller models.Address, wallet models.Address) error
	Withdraw(ctx context.Context, caller models.Address) (*uint256.Int, error)

	GetPassData(ctx context.Context, id models.TokenID) (*models.Pass, error)
	GetPoints(ctx context.Context, id models.TokenID) (uint64, error)
	CheckAccess(ctx context.Context, id models.TokenID) (uint64, error)
	IsAirdropEligible(ctx context.Context, id models.TokenID) (bool, uint64, error)
	GetWalletPoints(ctx context.Context, wallet models.Address) (uint64, error)
	HasMinted(ctx context.Context, wallet models.Address) (bool, error)
	RegistryInfo(ctx context.Context) (*service.Info, error)
	Ready(ctx context.Context) error
}

// TokenIssuer issues wallet identity tokens. Only wired in dev deployments.
type TokenIssuer interface {
	GenerateWalletToken(wallet string, expiresIn time.Duration) (string, error)
}

// Handler handles registry endpoints.
type Handler struct {
	logger       *slog.Logger
	registry     Service
	metrics      *metrics.Metrics
	jwtValidator middleware.TokenValidator
	adminToken   string
	adminWallet  models.Address
	issuer       TokenIssuer
}

// New creates a registry Handler. issuer may be nil, in which case the dev
// token endpoint is not mounted.
func New(
	registry Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.TokenValidator,
	adminToken string,
	adminWallet models.Address,
	issuer TokenIssuer,
) *Handler {
	return &Handler{
		logger:       logger,
		registry:     registry,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		adminToken:   adminToken,
		adminWallet:  adminWallet,
		issuer:       issuer,
	}
}

// Register mounts all registry routes on r.
func (h *Handler) Register(r chi.Router) {
	root := chi.NewRouter()
	root.Use(middleware.Recovery(h.logger))
	root.Use(middleware.RequestID)
	root.Use(middleware.Logger(h.logger))
	root.Use(middleware.Latency(h.metrics))

	root.Get("/v1/registry", h.handleRegistryInfo)

	root.Route("/v1/passes", func(r chi.Router) {
		r.Get("/{tokenID}", h.handleGetPass)
		r.Get("/{tokenID}/points", h.handleGetPoints)
		r.Get("/{tokenID}/access", h.handleGetAccess)
		r.Get("/{tokenID}/airdrop", h.handleGetAirdrop)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireWallet(h.jwtValidator, h.logger))
			r.Post("/mint", h.handleMint)
			r.Post("/{tokenID}/claim", h.handleClaim)
		})
	})

	root.Route("/v1/wallets", func(r chi.Router) {
		r.Get("/{address}/points", h.handleWalletPoints)
		r.Get("/{address}/minted", h.handleWalletMinted)
	})

	root.Route("/v1/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
		r.Post("/passes/{tokenID}/points", h.handleAwardPoints)
		r.Post("/points/batch", h.handleAwardPointsBatch)
		r.Put("/passes/{tokenID}/access", h.handleSetAccess)
		r.Put("/passes/{tokenID}/airdrop", h.handleSetAirdrop)
		r.Post("/airdrop/batch", h.handleSetAirdropBatch)
		r.Put("/registry/minting", h.handleSetMinting)
		r.Put("/registry/claiming", h.handleSetClaiming)
		r.Put("/registry/price", h.handleSetPrice)
		r.Delete("/wallets/{address}/restriction", h.handleResetRestriction)
		r.Post("/withdraw", h.handleWithdraw)
	})

	if h.issuer != nil {
		root.Post("/v1/auth/token", h.handleIssueToken)
	}

	root.Get("/healthz", h.handleHealthz)
	root.Get("/readyz", h.handleReadyz)

	r.Mount("/", root)
}

func tokenIDParam(r *http.Request) (models.TokenID, error) {
	raw := chi.URLParam(r, "tokenID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domerrors.Newf(domerrors.CodeBadRequest, "invalid token id %q", raw)
	}
	return models.TokenID(id), nil
}

func addressParam(r *http.Request) (models.Address, error) {
	raw := chi.URLParam(r, "address")
	if raw == "" {
		return "", domerrors.New(domerrors.CodeBadRequest, "missing wallet address")
	}
	return models.Address(raw), nil
}

// callerWallet pulls the authenticated wallet from the request context. The
// auth middleware guarantees it is set on protected routes.
func (h *Handler) callerWallet(w http.ResponseWriter, r *http.Request) (models.Address, bool) {
	wallet := middleware.GetWallet(r.Context())
	if wallet == "" {
		h.logger.ErrorContext(r.Context(), "wallet missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, domerrors.New(domerrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return models.Address(wallet), true
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Ready(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "readiness check failed", "error", err)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
