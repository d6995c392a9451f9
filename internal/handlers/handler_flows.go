package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/dto"
	"github.com/SscSPs/corp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// flowHandler handles HTTP requests related to the flow ledger.
type flowHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newFlowHandler creates a new flowHandler.
func newFlowHandler(ls portssvc.LedgerSvcFacade) *flowHandler {
	return &flowHandler{
		ledgerService: ls,
	}
}

// registerFlowRoutes registers routes related to the flow ledger.
func registerFlowRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newFlowHandler(ledgerService)

	flows := rg.Group("/flows")
	{
		flows.POST("/rebuild", h.rebuild)
		flows.GET("/status", h.status)
		flows.GET("/totals", h.totals)
		flows.GET("/members", h.members)
		flows.GET("/recent", h.recent)
	}
}

// rebuild godoc
// @Summary Rebuild the flow ledger
// @Description Derives the flow ledger again from the activity tables and atomically replaces the stored one
// @Tags flows
// @Produce  json
// @Success 200 {object} domain.RebuildResult
// @Failure 500 {object} dto.ErrorResponse "Failed to rebuild flow ledger"
// @Router /flows/rebuild [post]
func (h *flowHandler) rebuild(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to rebuild flow ledger")

	result, err := h.ledgerService.Rebuild(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to rebuild flow ledger")
		return
	}

	logger.Info("Flow ledger rebuilt", slog.Int("flows_written", result.FlowsWritten))
	c.JSON(http.StatusOK, result)
}

// status godoc
// @Summary Get ledger freshness
// @Description Reports the last rebuild and whether it still matches the activity tables
// @Tags flows
// @Produce  json
// @Success 200 {object} domain.LedgerStatus
// @Failure 500 {object} dto.ErrorResponse "Failed to read ledger status"
// @Router /flows/status [get]
func (h *flowHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.ledgerService.Status(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to read ledger status")
		return
	}
	c.JSON(http.StatusOK, status)
}

// totals godoc
// @Summary Get organization totals
// @Description Sums the flow ledger into value in, value out, net and share-equivalents
// @Tags flows
// @Produce  json
// @Success 200 {object} domain.FlowTotals
// @Failure 500 {object} dto.ErrorResponse "Failed to compute totals"
// @Router /flows/totals [get]
func (h *flowHandler) totals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	totals, err := h.ledgerService.Totals(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// members godoc
// @Summary List member net positions
// @Description Lists each member's net position, largest first, together with the organization totals
// @Tags flows
// @Produce  json
// @Success 200 {object} dto.ListMembersResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to compute member nets"
// @Router /flows/members [get]
func (h *flowHandler) members(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	members, err := h.ledgerService.MemberNets(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute member nets")
		return
	}
	totals, err := h.ledgerService.Totals(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: members, Totals: totals})
}

// recent godoc
// @Summary List recent flows
// @Description Lists flows newest first using token-based pagination
// @Tags flows
// @Produce  json
// @Param   limit query int false "Maximum number of flows (1-5000), configured default when omitted"
// @Param   nextToken query string false "Token from a previous page"
// @Success 200 {object} dto.ListRecentFlowsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters or token"
// @Failure 500 {object} dto.ErrorResponse "Failed to list recent flows"
// @Router /flows/recent [get]
func (h *flowHandler) recent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRecentFlowsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for recent flows", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	flows, nextToken, err := h.ledgerService.Recent(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list recent flows")
		return
	}

	logger.Debug("Recent flows listed", slog.Int("count", len(flows)))
	c.JSON(http.StatusOK, dto.ListRecentFlowsResponse{Flows: flows, NextToken: nextToken})
}
