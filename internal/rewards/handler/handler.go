package handler

import (
	"net/http"
	"strconv"

	"rewards_backend/internal/rewards/catalog"
	"rewards_backend/internal/rewards/ledger"
	"rewards_backend/internal/rewards/points"
	"rewards_backend/internal/rewards/tier"
	"rewards_backend/internal/rewards/transport"
	"rewards_backend/platform/httpkit"
	"rewards_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// guestKeyHeader carries the opaque key identifying an unauthenticated
// visitor's balance.
const guestKeyHeader = "X-Guest-Key"

type Handler struct {
	ledger  *ledger.Service
	catalog *catalog.Service
	val     *validator.Validator
	tiers   []tier.Tier
}

func New(ledgerSvc *ledger.Service, catalogSvc *catalog.Service, val *validator.Validator, tiers []tier.Tier) *Handler {
	return &Handler{ledger: ledgerSvc, catalog: catalogSvc, val: val, tiers: tiers}
}

func accountFrom(c *gin.Context) ledger.Account {
	id := httpkit.GetIdentity(c)
	if id.IsAuthenticated() {
		return ledger.Account{
			UserID:        id.UserID(),
			Email:         id.Email(),
			Authenticated: true,
		}
	}
	return ledger.Account{GuestKey: c.GetHeader(guestKeyHeader)}
}

// Earn credits points for the caller, guest or authenticated.
func (h *Handler) Earn(c *gin.Context) {
	var req transport.EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	amount, err := points.AmountFor(req.Reason, req.OrderTotal)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	account := accountFrom(c)
	newTotal, err := h.ledger.Earn(c.Request.Context(), account, amount, req.Reason, req.Platform)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.EarnResponse{
		Amount:   amount,
		NewTotal: newTotal,
		Reason:   req.Reason,
		Guest:    !account.Authenticated,
	})
}

// Balance returns the caller's points and tier placement.
func (h *Handler) Balance(c *gin.Context) {
	account := accountFrom(c)
	balance, err := h.ledger.Balance(c.Request.Context(), account)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	current, next := tier.Resolve(balance, h.tiers)
	resp := transport.BalanceResponse{
		Points:      balance,
		CurrentTier: current,
		NextTier:    next,
		Guest:       !account.Authenticated,
	}
	if next != nil {
		resp.ToNextTier = next.MinPoints - balance
	}
	httpkit.OK(c, resp)
}

// Tiers lists the ladder; ?points= adds placement for that balance.
func (h *Handler) Tiers(c *gin.Context) {
	resp := transport.TiersResponse{Tiers: h.tiers}

	if raw := c.Query("points"); raw != "" {
		balance, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "points must be an integer", nil)
			return
		}
		current, next := tier.Resolve(balance, h.tiers)
		resp.CurrentTier = &current
		resp.NextTier = next
	}

	httpkit.OK(c, resp)
}

// Catalog lists active rewards.
func (h *Handler) Catalog(c *gin.Context) {
	entries, err := h.catalog.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, entries)
}

// Claim redeems a catalog reward for the authenticated caller.
func (h *Handler) Claim(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	claim, err := h.catalog.Claim(c.Request.Context(), id.UserID(), rewardID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToClaimResponse(claim))
}

// Claims lists the authenticated caller's redemptions.
func (h *Handler) Claims(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	claims, err := h.catalog.Claims(c.Request.Context(), id.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	responses := make([]transport.ClaimResponse, 0, len(claims))
	for _, claim := range claims {
		responses = append(responses, transport.ToClaimResponse(claim))
	}
	httpkit.OK(c, responses)
}
