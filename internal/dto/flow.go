package dto

import (
	"github.com/SscSPs/corp_ledger/internal/core/domain"
)

// ListRecentFlowsParams defines query parameters for listing recent flows.
type ListRecentFlowsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=5000"` // Zero selects the configured default
	NextToken *string `form:"nextToken"`
}

// ListRecentFlowsResponse wraps a page of flows.
type ListRecentFlowsResponse struct {
	Flows     []domain.FlowRecord `json:"flows"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ListMembersResponse wraps member net positions together with the organization totals.
type ListMembersResponse struct {
	Members []domain.MemberNet `json:"members"`
	Totals  *domain.FlowTotals `json:"totals"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
