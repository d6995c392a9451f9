package accounting

import (
	"fmt"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedValue applies the sign implied by a flow's direction to its stored magnitude.
// This is used by aggregation and by rebuild logging so both agree on the convention:
// IN -> Positive (+), OUT -> Negative (-).
func CalculateSignedValue(flow domain.FlowRecord) (decimal.Decimal, error) {
	switch flow.Direction {
	case domain.FlowIn:
		return flow.Value, nil
	case domain.FlowOut:
		return flow.Value.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown flow direction '%s' encountered for member %d", flow.Direction, flow.MemberID)
	}
}

// SumByDirection returns the total value in, total value out and their difference.
func SumByDirection(flows []domain.FlowRecord) (totalIn, totalOut, net decimal.Decimal) {
	totalIn, totalOut = decimal.Zero, decimal.Zero
	for _, f := range flows {
		switch f.Direction {
		case domain.FlowIn:
			totalIn = totalIn.Add(f.Value)
		case domain.FlowOut:
			totalOut = totalOut.Add(f.Value)
		}
	}
	return totalIn, totalOut, totalIn.Sub(totalOut)
}

// SharesFor converts a net value into share-equivalents.
// A non-positive unit yields zero rather than an error.
func SharesFor(net, shareUnitValue decimal.Decimal) decimal.Decimal {
	if !shareUnitValue.IsPositive() {
		return decimal.Zero
	}
	return net.Div(shareUnitValue)
}

// ValidateFlow checks the stored-shape invariants of a flow record.
func ValidateFlow(flow domain.FlowRecord) error {
	if flow.Value.IsNegative() {
		return fmt.Errorf("flow value must be non-negative, got %s for member %d", flow.Value.String(), flow.MemberID)
	}
	if _, err := CalculateSignedValue(flow); err != nil {
		return err
	}
	switch flow.Source {
	case domain.SourceWallet, domain.SourceContractIn, domain.SourceContractOut,
		domain.SourceContractOutSubsidy, domain.SourceIndustry, domain.SourceMarket:
		return nil
	default:
		return fmt.Errorf("unknown flow source '%s' encountered for member %d", flow.Source, flow.MemberID)
	}
}
