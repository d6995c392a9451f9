package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowDirection indicates whether value moved into or out of the organization.
type FlowDirection string

const (
	FlowIn  FlowDirection = "in"
	FlowOut FlowDirection = "out"
)

// FlowSource tags the derivation rule that produced a flow.
type FlowSource string

const (
	SourceWallet             FlowSource = "wallet"
	SourceContractIn         FlowSource = "contract_in"
	SourceContractOut        FlowSource = "contract_out"
	SourceContractOutSubsidy FlowSource = "contract_out_subsidy"
	SourceIndustry           FlowSource = "industry"
	SourceMarket             FlowSource = "market"
)

// FlowRecord is one attributable movement of value between a member and the organization.
// Value is never negative; Direction carries the sign.
type FlowRecord struct {
	ID          int64           `json:"id"`
	MemberID    int64           `json:"memberID"`
	Direction   FlowDirection   `json:"direction"`
	Source      FlowSource      `json:"source"`
	ContractRef *int64          `json:"contractRef,omitempty"`
	JournalRef  *int64          `json:"journalRef,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// RuleCounts reports how many source rows each derivation rule translated.
type RuleCounts struct {
	Wallet      int `json:"wallet"`
	ContractIn  int `json:"contractIn"`
	ContractOut int `json:"contractOut"` // Contracts, each yielding an out/in pair
	Industry    int `json:"industry"`
	Market      int `json:"market"`
}

// LedgerState is the freshness of the flow ledger relative to its sources.
type LedgerState string

const (
	LedgerStale   LedgerState = "stale"
	LedgerCurrent LedgerState = "current"
)

// RebuildResult summarises a completed ledger rebuild.
type RebuildResult struct {
	Counts       RuleCounts `json:"counts"`
	FlowsWritten int        `json:"flowsWritten"`
	RebuiltAt    time.Time  `json:"rebuiltAt"`
	SourceMarker string     `json:"sourceMarker"`
}

// LedgerStatus describes the last rebuild and whether it still matches the sources.
type LedgerStatus struct {
	State       LedgerState    `json:"state"`
	LastRebuild *RebuildResult `json:"lastRebuild,omitempty"`
	LiveMarker  string         `json:"liveMarker"`
}
