package domain

import (
	"github.com/shopspring/decimal"
)

// FlowTotals is the organization-wide sum of the flow ledger.
type FlowTotals struct {
	TotalIn        decimal.Decimal `json:"totalIn"`
	TotalOut       decimal.Decimal `json:"totalOut"`
	Net            decimal.Decimal `json:"net"` // TotalIn - TotalOut
	Shares         decimal.Decimal `json:"shares"`
	ShareUnitValue decimal.Decimal `json:"shareUnitValue"`
}

// MemberNet is a member's cumulative value in minus value out.
type MemberNet struct {
	MemberID int64           `json:"memberID"`
	Name     string          `json:"name,omitempty"`
	In       decimal.Decimal `json:"in"`
	Out      decimal.Decimal `json:"out"`
	Net      decimal.Decimal `json:"net"`
	Shares   decimal.Decimal `json:"shares"`
}
