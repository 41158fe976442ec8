package handler

import (
	"context"
	"net/http"
	"strconv"

	"rewards_backend/internal/leads/management"
	"rewards_backend/internal/leads/repository"
	"rewards_backend/internal/leads/segmentation"
	"rewards_backend/internal/leads/transport"
	"rewards_backend/platform/httpkit"
	"rewards_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// SegmentationEnqueuer queues a segmentation run for the background worker.
type SegmentationEnqueuer interface {
	EnqueueSegmentationRun(ctx context.Context, trigger string) error
}

type Handler struct {
	mgmt     *management.Service
	seg      *segmentation.Service
	val      *validator.Validator
	enqueuer SegmentationEnqueuer
}

func New(mgmt *management.Service, seg *segmentation.Service, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, seg: seg, val: val}
}

// SetSegmentationEnqueuer enables the async segmentation endpoint.
func (h *Handler) SetSegmentationEnqueuer(e SegmentationEnqueuer) {
	h.enqueuer = e
}

// Join handles a public waiting-list signup.
func (h *Handler) Join(c *gin.Context) {
	var req transport.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.mgmt.Join(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) List(c *gin.Context) {
	filter := repository.ListFilter{
		Segment:   c.Query("segment"),
		SortBy:    c.Query("sort_by"),
		Ascending: c.Query("ascending") == "true",
	}

	leads, err := h.mgmt.List(c.Request.Context(), filter)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) TopLeads(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	leads, err := h.mgmt.TopLeads(c.Request.Context(), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) ConversionRate(c *gin.Context) {
	stats, err := h.mgmt.ConversionRate(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, stats)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.mgmt.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

// RunSegmentation triggers a synchronous segmentation batch and returns
// the partitioned leads.
func (h *Handler) RunSegmentation(c *gin.Context) {
	result, err := h.seg.Run(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.SegmentationResponse{
		Hot:  transport.ToLeadResponses(result.Hot),
		Warm: transport.ToLeadResponses(result.Warm),
		Cold: transport.ToLeadResponses(result.Cold),
	})
}

// EnqueueSegmentation queues a segmentation run on the background worker
// instead of blocking the request on the full batch.
func (h *Handler) EnqueueSegmentation(c *gin.Context) {
	if h.enqueuer == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "background scheduler not configured", nil)
		return
	}

	if err := h.enqueuer.EnqueueSegmentationRun(c.Request.Context(), "manual"); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}
