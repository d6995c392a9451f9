package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberFlow is a row of the member_flows table.
type MemberFlow struct {
	ID          int64           `json:"id"`          // BIGSERIAL primary key
	MemberID    int64           `json:"memberID"`    // Not Null
	Direction   string          `json:"direction"`   // 'in' or 'out'
	Source      string          `json:"source"`      // Rule tag, checked by the table constraint
	ContractRef *int64          `json:"contractRef"` // Nullable
	JournalRef  *int64          `json:"journalRef"`  // Nullable
	Value       decimal.Decimal `json:"value"`       // Never negative
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LedgerRebuild is a row of the ledger_rebuilds table.
type LedgerRebuild struct {
	ID               int64     `json:"id"`
	RebuiltAt        time.Time `json:"rebuiltAt"`
	WalletCount      int       `json:"walletCount"`
	ContractInCount  int       `json:"contractInCount"`
	ContractOutCount int       `json:"contractOutCount"`
	IndustryCount    int       `json:"industryCount"`
	MarketCount      int       `json:"marketCount"`
	FlowsWritten     int       `json:"flowsWritten"`
	SourceMarker     string    `json:"sourceMarker"`
}
