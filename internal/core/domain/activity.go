package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefTypePlayerDonation marks a wallet journal entry as a member donation.
const RefTypePlayerDonation = "player_donation"

// JournalEntry is one row of the organization's treasury transaction log.
type JournalEntry struct {
	ExternalID    int64               `json:"externalID"` // Unique id assigned by the upstream API
	Date          time.Time           `json:"date"`
	RefType       string              `json:"refType"`
	Amount        decimal.NullDecimal `json:"amount"` // Signed; positive when value enters the wallet
	Balance       decimal.NullDecimal `json:"balance"`
	Description   string              `json:"description"`
	FirstPartyID  *int64              `json:"firstPartyID"`
	SecondPartyID *int64              `json:"secondPartyID"`
	Division      int                 `json:"division"`
}

// Donation is the cached projection of a donation-tagged JournalEntry.
type Donation struct {
	JournalRef int64               `json:"journalRef"` // ExternalID of the originating JournalEntry
	MemberID   *int64              `json:"memberID"`
	Amount     decimal.NullDecimal `json:"amount"`
	Memo       string              `json:"memo"`
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractOutstanding        ContractStatus = "outstanding"
	ContractInProgress         ContractStatus = "in_progress"
	ContractFinishedIssuer     ContractStatus = "finished_issuer"
	ContractFinishedContractor ContractStatus = "finished_contractor"
	ContractFinished           ContractStatus = "finished"
	ContractFailed             ContractStatus = "failed"
	ContractCancelled          ContractStatus = "cancelled"
	ContractExpired            ContractStatus = "expired"
	ContractRejected           ContractStatus = "rejected"
	ContractDeleted            ContractStatus = "deleted"
	ContractReversed           ContractStatus = "reversed"
)

// IsTerminal reports whether no further transition can follow s.
func (s ContractStatus) IsTerminal() bool {
	switch s {
	case ContractFinished, ContractFailed, ContractCancelled, ContractExpired,
		ContractRejected, ContractDeleted, ContractReversed:
		return true
	}
	return false
}

// Contract is a peer-to-peer contract between a member and the organization.
type Contract struct {
	ExternalID          int64               `json:"externalID"`
	IssuerID            *int64              `json:"issuerID"`
	IssuerCorporationID *int64              `json:"issuerCorporationID"`
	AssigneeID          *int64              `json:"assigneeID"`
	AcceptorID          *int64              `json:"acceptorID"`
	Type                string              `json:"type"`
	Status              ContractStatus      `json:"status"`
	Title               string              `json:"title"`
	ForCorporation      bool                `json:"forCorporation"`
	DateIssued          *time.Time          `json:"dateIssued"`
	DateExpired         *time.Time          `json:"dateExpired"`
	DateAccepted        *time.Time          `json:"dateAccepted"`
	DateCompleted       *time.Time          `json:"dateCompleted"`
	Price               decimal.NullDecimal `json:"price"`
	Reward              decimal.NullDecimal `json:"reward"`
	Collateral          decimal.NullDecimal `json:"collateral"`
	Volume              decimal.NullDecimal `json:"volume"`
	AppraisalValue      decimal.NullDecimal `json:"appraisalValue"` // Null until the appraisal provider returns a value
	AppraisedAt         *time.Time          `json:"appraisedAt"`
}

// ContractItem is one line of a contract's item bundle.
type ContractItem struct {
	ContractID        int64 `json:"contractID"`
	RecordID          int64 `json:"recordID"`
	TypeID            int64 `json:"typeID"`
	Quantity          int64 `json:"quantity"`
	QuantityRemaining int64 `json:"quantityRemaining"`
	IsIncluded        bool  `json:"isIncluded"`
	IsSingleton       bool  `json:"isSingleton"`
}

// JobStatus is the lifecycle state of an industry job.
type JobStatus string

const (
	JobActive    JobStatus = "active"
	JobPaused    JobStatus = "paused"
	JobReady     JobStatus = "ready"
	JobDelivered JobStatus = "delivered"
	JobCancelled JobStatus = "cancelled"
	JobReverted  JobStatus = "reverted"
)

// IsTerminal reports whether no further transition can follow s.
func (s JobStatus) IsTerminal() bool {
	return s == JobDelivered || s == JobCancelled || s == JobReverted
}

// IndustryJob is a manufacturing (or other industry) job run in an organization facility.
type IndustryJob struct {
	ExternalID           int64               `json:"externalID"`
	InstallerID          *int64              `json:"installerID"`
	FacilityID           *int64              `json:"facilityID"`
	ActivityID           *int64              `json:"activityID"`
	BlueprintID          *int64              `json:"blueprintID"`
	BlueprintTypeID      *int64              `json:"blueprintTypeID"`
	ProductTypeID        *int64              `json:"productTypeID"`
	Runs                 *int64              `json:"runs"`
	Cost                 decimal.NullDecimal `json:"cost"`
	Status               JobStatus           `json:"status"`
	StartDate            *time.Time          `json:"startDate"`
	EndDate              *time.Time          `json:"endDate"`
	CompletedCharacterID *int64              `json:"completedCharacterID"`
	CompletedDate        *time.Time          `json:"completedDate"`
	SuccessfulRuns       *int64              `json:"successfulRuns"`
	LocationID           *int64              `json:"locationID"`
}

// MarketOrder is a snapshot of an organization market order. Open (IsHistory=false)
// and historical rows for the same ExternalID may coexist.
type MarketOrder struct {
	ExternalID     int64               `json:"externalID"`
	IsHistory      bool                `json:"isHistory"`
	TypeID         *int64              `json:"typeID"`
	LocationID     *int64              `json:"locationID"`
	RegionID       *int64              `json:"regionID"`
	VolumeTotal    *int64              `json:"volumeTotal"`
	VolumeRemain   *int64              `json:"volumeRemain"`
	Price          decimal.NullDecimal `json:"price"`
	IsBuyOrder     bool                `json:"isBuyOrder"`
	IssuedBy       *int64              `json:"issuedBy"`
	State          string              `json:"state"`
	Issued         *time.Time          `json:"issued"`
	Range          string              `json:"range"`
	WalletDivision *int64              `json:"walletDivision"`
}

// AppraisalItem is one (name, quantity) line sent to the appraisal provider.
type AppraisalItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}
