package derivation

import (
	"fmt"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletFlows credits each donation to its donor (in/wallet).
// Donations without a donor or a positive amount are skipped.
func WalletFlows(donations []domain.Donation) []domain.FlowRecord {
	flows := make([]domain.FlowRecord, 0, len(donations))
	seen := make(map[int64]struct{}, len(donations))
	for _, d := range donations {
		if d.MemberID == nil || !d.Amount.Valid || !d.Amount.Decimal.IsPositive() {
			continue
		}
		if _, dup := seen[d.JournalRef]; dup {
			continue
		}
		seen[d.JournalRef] = struct{}{}
		flows = append(flows, domain.FlowRecord{
			MemberID:   *d.MemberID,
			Direction:  domain.FlowIn,
			Source:     domain.SourceWallet,
			JournalRef: int64Ptr(d.JournalRef),
			Value:      ledgerValue(d.Amount.Decimal),
			Note:       truncateNote(d.Memo),
		})
	}
	return flows
}

// ContractInFlows treats a finished, zero-price, appraised contract as a donation in kind
// and credits the issuer with the appraisal value (in/contract_in).
func ContractInFlows(contracts []domain.Contract) []domain.FlowRecord {
	flows := make([]domain.FlowRecord, 0)
	seen := make(map[int64]struct{})
	for _, c := range contracts {
		if c.Price.Valid && !c.Price.Decimal.IsZero() {
			continue
		}
		if c.Status != domain.ContractFinished || !c.AppraisalValue.Valid || c.IssuerID == nil {
			continue
		}
		if !c.AppraisalValue.Decimal.IsPositive() {
			continue
		}
		if _, dup := seen[c.ExternalID]; dup {
			continue
		}
		seen[c.ExternalID] = struct{}{}
		flows = append(flows, domain.FlowRecord{
			MemberID:    *c.IssuerID,
			Direction:   domain.FlowIn,
			Source:      domain.SourceContractIn,
			ContractRef: int64Ptr(c.ExternalID),
			Value:       ledgerValue(c.AppraisalValue.Decimal),
			Note:        "Item donation contract to organization",
		})
	}
	return flows
}

// ContractOutFlows records below-market sales from the organization to a member.
// The subsidy (appraisal - price) is booked out/contract_out and a fraction of it is
// returned as in/contract_out_subsidy. Contracts priced at or above appraisal yield nothing.
// The second return value counts contracts, not records.
func ContractOutFlows(contracts []domain.Contract, creditFraction decimal.Decimal) ([]domain.FlowRecord, int) {
	flows := make([]domain.FlowRecord, 0)
	seen := make(map[int64]struct{})
	count := 0
	for _, c := range contracts {
		if !c.ForCorporation || !c.Price.Valid || c.Status != domain.ContractFinished || !c.AppraisalValue.Valid {
			continue
		}
		if c.AssigneeID == nil {
			continue
		}
		subsidy := c.AppraisalValue.Decimal.Sub(c.Price.Decimal)
		if !subsidy.IsPositive() {
			continue
		}
		if _, dup := seen[c.ExternalID]; dup {
			continue
		}
		seen[c.ExternalID] = struct{}{}

		flows = append(flows,
			domain.FlowRecord{
				MemberID:    *c.AssigneeID,
				Direction:   domain.FlowOut,
				Source:      domain.SourceContractOut,
				ContractRef: int64Ptr(c.ExternalID),
				Value:       ledgerValue(subsidy),
				Note:        "Organization subsidy on contract sale",
			},
			domain.FlowRecord{
				MemberID:    *c.AssigneeID,
				Direction:   domain.FlowIn,
				Source:      domain.SourceContractOutSubsidy,
				ContractRef: int64Ptr(c.ExternalID),
				Value:       ledgerValue(subsidy.Mul(creditFraction)),
				Note:        "Discount credit on subsidized contract",
			},
		)
		count++
	}
	return flows, count
}

// IndustryFlows credits the installer of each delivered job with its (scaled) cost (in/industry).
// Jobs without a positive cost are skipped.
func IndustryFlows(jobs []domain.IndustryJob, creditFraction decimal.Decimal) []domain.FlowRecord {
	flows := make([]domain.FlowRecord, 0)
	seen := make(map[int64]struct{})
	for _, j := range jobs {
		if j.Status != domain.JobDelivered || !j.Cost.Valid || !j.Cost.Decimal.IsPositive() || j.InstallerID == nil {
			continue
		}
		if _, dup := seen[j.ExternalID]; dup {
			continue
		}
		seen[j.ExternalID] = struct{}{}
		flows = append(flows, domain.FlowRecord{
			MemberID:  *j.InstallerID,
			Direction: domain.FlowIn,
			Source:    domain.SourceIndustry,
			Value:     ledgerValue(j.Cost.Decimal.Mul(creditFraction)),
			Note: truncateNote(fmt.Sprintf("Industry job %d, product type %s, runs %s",
				j.ExternalID, optionalInt(j.ProductTypeID), optionalInt(j.Runs))),
		})
	}
	return flows
}

// MarketFlows credits the issuer of each closed sell order with a fraction of its
// realized sale value (in/market). Only historical rows are read, so partial fills
// seen on open snapshots are never counted twice.
func MarketFlows(orders []domain.MarketOrder, creditFraction decimal.Decimal) []domain.FlowRecord {
	flows := make([]domain.FlowRecord, 0)
	seen := make(map[int64]struct{})
	for _, o := range orders {
		if !o.IsHistory || o.IsBuyOrder || o.IssuedBy == nil || !o.Price.Valid || !o.Price.Decimal.IsPositive() {
			continue
		}
		if o.VolumeTotal == nil {
			continue
		}
		remain := int64(0)
		if o.VolumeRemain != nil {
			remain = *o.VolumeRemain
		}
		sold := *o.VolumeTotal - remain
		if sold <= 0 {
			continue
		}
		if _, dup := seen[o.ExternalID]; dup {
			continue
		}
		seen[o.ExternalID] = struct{}{}

		soldVolume := decimal.NewFromInt(sold)
		flows = append(flows, domain.FlowRecord{
			MemberID:  *o.IssuedBy,
			Direction: domain.FlowIn,
			Source:    domain.SourceMarket,
			Value:     ledgerValue(soldVolume.Mul(o.Price.Decimal).Mul(creditFraction)),
			Note: truncateNote(fmt.Sprintf("Market sell order %d, state %s, sold %d @ %s",
				o.ExternalID, o.State, sold, o.Price.Decimal.String())),
		})
	}
	return flows
}

// Derive applies every rule to a source snapshot. The rules write disjoint rows, so the
// order below only fixes the order of the staged slice.
func Derive(src Sources, policy Policy) Result {
	var res Result

	wallet := WalletFlows(src.Donations)
	contractIn := ContractInFlows(src.Contracts)
	contractOut, contractOutCount := ContractOutFlows(src.Contracts, policy.SubsidyCreditFraction)
	industry := IndustryFlows(src.IndustryJobs, policy.IndustryCreditFraction)
	market := MarketFlows(src.MarketOrders, policy.MarketCreditFraction)

	res.Counts = domain.RuleCounts{
		Wallet:      len(wallet),
		ContractIn:  len(contractIn),
		ContractOut: contractOutCount,
		Industry:    len(industry),
		Market:      len(market),
	}

	res.Flows = make([]domain.FlowRecord, 0, len(wallet)+len(contractIn)+len(contractOut)+len(industry)+len(market))
	res.Flows = append(res.Flows, wallet...)
	res.Flows = append(res.Flows, contractIn...)
	res.Flows = append(res.Flows, contractOut...)
	res.Flows = append(res.Flows, industry...)
	res.Flows = append(res.Flows, market...)
	return res
}

// DonationFromEntry projects a donation-tagged journal entry into a Donation.
// The second return value is false for entries of any other ref type.
func DonationFromEntry(entry domain.JournalEntry) (domain.Donation, bool) {
	if entry.RefType != domain.RefTypePlayerDonation {
		return domain.Donation{}, false
	}
	return domain.Donation{
		JournalRef: entry.ExternalID,
		MemberID:   entry.FirstPartyID,
		Amount:     entry.Amount,
		Memo:       entry.Description,
	}, true
}

func optionalInt(v *int64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}
