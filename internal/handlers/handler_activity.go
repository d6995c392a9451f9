package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/dto"
	"github.com/SscSPs/corp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// activityHandler triggers upstream synchronization and contract appraisal.
type activityHandler struct {
	syncService      portssvc.SyncSvc
	appraisalService portssvc.AppraisalSvc
}

func registerActivityRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvc, appraisalService portssvc.AppraisalSvc) {
	h := &activityHandler{
		syncService:      syncService,
		appraisalService: appraisalService,
	}

	rg.POST("/sync", h.sync)
	rg.POST("/contracts/appraise", h.appraise)
}

// sync godoc
// @Summary Synchronize upstream activity
// @Description Pulls journal, contracts, industry jobs and market orders from the upstream API
// @Tags activity
// @Produce  json
// @Success 200 {object} domain.SyncSummary
// @Failure 502 {object} dto.ErrorResponse "Upstream rejected the credentials"
// @Failure 503 {object} dto.ErrorResponse "Upstream unavailable or not configured"
// @Failure 500 {object} dto.ErrorResponse "Failed to synchronize upstream activity"
// @Router /sync [post]
func (h *activityHandler) sync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.syncService == nil {
		logger.Warn("Sync requested but upstream credentials are not configured")
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Upstream synchronization is not configured"})
		return
	}

	summary, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to synchronize upstream activity")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// appraise godoc
// @Summary Appraise pending contracts
// @Description Prices every finished contract that has no appraisal value yet
// @Tags activity
// @Produce  json
// @Success 200 {object} domain.AppraisalSummary
// @Failure 500 {object} dto.ErrorResponse "Failed to appraise pending contracts"
// @Router /contracts/appraise [post]
func (h *activityHandler) appraise(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.appraisalService.AppraisePending(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to appraise pending contracts")
		return
	}
	c.JSON(http.StatusOK, summary)
}
