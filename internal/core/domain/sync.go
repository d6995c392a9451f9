package domain

import "strconv"

// SyncSummary reports how many upstream rows each synchronization step stored.
type SyncSummary struct {
	JournalEntries int `json:"journalEntries"`
	Donations      int `json:"donations"` // Newly created only
	Contracts      int `json:"contracts"`
	ContractItems  int `json:"contractItems"`
	IndustryJobs   int `json:"industryJobs"`
	MarketOrders   int `json:"marketOrders"`
	// Skipped lists sources whose fetch failed; their stored rows were left as they were.
	Skipped []string `json:"skipped,omitempty"`
}

// AppraisalSummary reports the outcome of one appraisal pass over pending contracts.
type AppraisalSummary struct {
	Attempted int `json:"attempted"`
	Appraised int `json:"appraised"`
	Pending   int `json:"pending"` // No value yet, retried on the next pass
}

// NameKind selects which identifier namespace a name lookup targets.
type NameKind string

const (
	NameKindType      NameKind = "type"
	NameKindCharacter NameKind = "character"
)

// FallbackName is the placeholder used when no name can be resolved for id.
func (k NameKind) FallbackName(id int64) string {
	switch k {
	case NameKindCharacter:
		return "char:" + strconv.FormatInt(id, 10)
	default:
		return "type:" + strconv.FormatInt(id, 10)
	}
}
