// Package derivation turns raw activity rows into flow ledger records.
//
// Every rule is a pure function of its input rows and a Policy, so rules can be
// composed, reordered and tested without a database.
package derivation

import (
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// maxNoteLength bounds the free-text note stored with each flow.
	maxNoteLength = 200
	// valueScale is the number of decimal places stored for a flow value.
	valueScale = 4
)

// Policy holds the business ratios applied by the derivation rules.
type Policy struct {
	// SubsidyCreditFraction is the share of a subsidy returned to the member as a discount credit.
	SubsidyCreditFraction decimal.Decimal
	// MarketCreditFraction is the share of realized sell value credited to the order issuer.
	MarketCreditFraction decimal.Decimal
	// IndustryCreditFraction scales a delivered job's cost into contributed value.
	IndustryCreditFraction decimal.Decimal
}

// DefaultPolicy returns the ratios used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		SubsidyCreditFraction:  decimal.NewFromFloat(0.10),
		MarketCreditFraction:   decimal.NewFromFloat(0.01),
		IndustryCreditFraction: decimal.NewFromInt(1),
	}
}

// Sources is a snapshot of every table the rules read.
type Sources struct {
	Donations    []domain.Donation
	Contracts    []domain.Contract
	IndustryJobs []domain.IndustryJob
	MarketOrders []domain.MarketOrder
}

// Result is a staged ledger: the records to write and how many rows each rule translated.
type Result struct {
	Flows  []domain.FlowRecord
	Counts domain.RuleCounts
}

func truncateNote(note string) string {
	r := []rune(note)
	if len(r) <= maxNoteLength {
		return note
	}
	return string(r[:maxNoteLength])
}

// ledgerValue rounds v to the stored scale so staged and persisted values agree.
func ledgerValue(v decimal.Decimal) decimal.Decimal {
	return v.Round(valueScale)
}

func int64Ptr(v int64) *int64 {
	return &v
}
