package mapping

import (
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/SscSPs/corp_ledger/internal/models"
)

// ToModelMemberFlow converts a domain FlowRecord to a model MemberFlow
func ToModelMemberFlow(d domain.FlowRecord) models.MemberFlow {
	return models.MemberFlow{
		ID:          d.ID,
		MemberID:    d.MemberID,
		Direction:   string(d.Direction),
		Source:      string(d.Source),
		ContractRef: d.ContractRef,
		JournalRef:  d.JournalRef,
		Value:       d.Value,
		Note:        d.Note,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainFlowRecord converts a model MemberFlow to a domain FlowRecord
func ToDomainFlowRecord(m models.MemberFlow) domain.FlowRecord {
	return domain.FlowRecord{
		ID:          m.ID,
		MemberID:    m.MemberID,
		Direction:   domain.FlowDirection(m.Direction),
		Source:      domain.FlowSource(m.Source),
		ContractRef: m.ContractRef,
		JournalRef:  m.JournalRef,
		Value:       m.Value,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainFlowRecordSlice converts a slice of model MemberFlows to a slice of domain FlowRecords
func ToDomainFlowRecordSlice(ms []models.MemberFlow) []domain.FlowRecord {
	ds := make([]domain.FlowRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFlowRecord(m)
	}
	return ds
}

// ToModelLedgerRebuild converts a domain RebuildResult to a model LedgerRebuild
func ToModelLedgerRebuild(d domain.RebuildResult) models.LedgerRebuild {
	return models.LedgerRebuild{
		RebuiltAt:        d.RebuiltAt,
		WalletCount:      d.Counts.Wallet,
		ContractInCount:  d.Counts.ContractIn,
		ContractOutCount: d.Counts.ContractOut,
		IndustryCount:    d.Counts.Industry,
		MarketCount:      d.Counts.Market,
		FlowsWritten:     d.FlowsWritten,
		SourceMarker:     d.SourceMarker,
	}
}

// ToDomainRebuildResult converts a model LedgerRebuild to a domain RebuildResult
func ToDomainRebuildResult(m models.LedgerRebuild) domain.RebuildResult {
	return domain.RebuildResult{
		Counts: domain.RuleCounts{
			Wallet:      m.WalletCount,
			ContractIn:  m.ContractInCount,
			ContractOut: m.ContractOutCount,
			Industry:    m.IndustryCount,
			Market:      m.MarketCount,
		},
		FlowsWritten: m.FlowsWritten,
		RebuiltAt:    m.RebuiltAt,
		SourceMarker: m.SourceMarker,
	}
}
