package esi

import (
	"time"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type journalRow struct {
	ID            int64               `json:"id"`
	Date          time.Time           `json:"date"`
	RefType       string              `json:"ref_type"`
	Amount        decimal.NullDecimal `json:"amount"`
	Balance       decimal.NullDecimal `json:"balance"`
	Description   string              `json:"description"`
	Reason        string              `json:"reason"`
	FirstPartyID  *int64              `json:"first_party_id"`
	SecondPartyID *int64              `json:"second_party_id"`
}

func (r journalRow) toDomain(division int) domain.JournalEntry {
	desc := r.Reason
	if desc == "" {
		desc = r.Description
	}
	return domain.JournalEntry{
		ExternalID:    r.ID,
		Date:          r.Date,
		RefType:       r.RefType,
		Amount:        r.Amount,
		Balance:       r.Balance,
		Description:   desc,
		FirstPartyID:  r.FirstPartyID,
		SecondPartyID: r.SecondPartyID,
		Division:      division,
	}
}

type contractRow struct {
	ContractID          int64               `json:"contract_id"`
	IssuerID            *int64              `json:"issuer_id"`
	IssuerCorporationID *int64              `json:"issuer_corporation_id"`
	AssigneeID          *int64              `json:"assignee_id"`
	AcceptorID          *int64              `json:"acceptor_id"`
	Type                string              `json:"type"`
	Status              string              `json:"status"`
	Title               string              `json:"title"`
	ForCorporation      bool                `json:"for_corporation"`
	DateIssued          *time.Time          `json:"date_issued"`
	DateExpired         *time.Time          `json:"date_expired"`
	DateAccepted        *time.Time          `json:"date_accepted"`
	DateCompleted       *time.Time          `json:"date_completed"`
	Price               decimal.NullDecimal `json:"price"`
	Reward              decimal.NullDecimal `json:"reward"`
	Collateral          decimal.NullDecimal `json:"collateral"`
	Volume              decimal.NullDecimal `json:"volume"`
}

func (r contractRow) toDomain() domain.Contract {
	return domain.Contract{
		ExternalID:          r.ContractID,
		IssuerID:            r.IssuerID,
		IssuerCorporationID: r.IssuerCorporationID,
		AssigneeID:          r.AssigneeID,
		AcceptorID:          zeroToNil(r.AcceptorID),
		Type:                r.Type,
		Status:              domain.ContractStatus(r.Status),
		Title:               r.Title,
		ForCorporation:      r.ForCorporation,
		DateIssued:          r.DateIssued,
		DateExpired:         r.DateExpired,
		DateAccepted:        r.DateAccepted,
		DateCompleted:       r.DateCompleted,
		Price:               r.Price,
		Reward:              r.Reward,
		Collateral:          r.Collateral,
		Volume:              r.Volume,
	}
}

type contractItemRow struct {
	RecordID          int64 `json:"record_id"`
	TypeID            int64 `json:"type_id"`
	Quantity          int64 `json:"quantity"`
	QuantityRemaining int64 `json:"quantity_remaining"`
	IsIncluded        bool  `json:"is_included"`
	IsSingleton       bool  `json:"is_singleton"`
}

func (r contractItemRow) toDomain(contractID int64) domain.ContractItem {
	return domain.ContractItem{
		ContractID:        contractID,
		RecordID:          r.RecordID,
		TypeID:            r.TypeID,
		Quantity:          r.Quantity,
		QuantityRemaining: r.QuantityRemaining,
		IsIncluded:        r.IsIncluded,
		IsSingleton:       r.IsSingleton,
	}
}

type industryJobRow struct {
	JobID                int64               `json:"job_id"`
	InstallerID          *int64              `json:"installer_id"`
	FacilityID           *int64              `json:"facility_id"`
	ActivityID           *int64              `json:"activity_id"`
	BlueprintID          *int64              `json:"blueprint_id"`
	BlueprintTypeID      *int64              `json:"blueprint_type_id"`
	ProductTypeID        *int64              `json:"product_type_id"`
	Runs                 *int64              `json:"runs"`
	Cost                 decimal.NullDecimal `json:"cost"`
	Status               string              `json:"status"`
	StartDate            *time.Time          `json:"start_date"`
	EndDate              *time.Time          `json:"end_date"`
	CompletedCharacterID *int64              `json:"completed_character_id"`
	CompletedDate        *time.Time          `json:"completed_date"`
	SuccessfulRuns       *int64              `json:"successful_runs"`
	LocationID           *int64              `json:"location_id"`
}

func (r industryJobRow) toDomain() domain.IndustryJob {
	return domain.IndustryJob{
		ExternalID:           r.JobID,
		InstallerID:          r.InstallerID,
		FacilityID:           r.FacilityID,
		ActivityID:           r.ActivityID,
		BlueprintID:          r.BlueprintID,
		BlueprintTypeID:      r.BlueprintTypeID,
		ProductTypeID:        r.ProductTypeID,
		Runs:                 r.Runs,
		Cost:                 r.Cost,
		Status:               domain.JobStatus(r.Status),
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		CompletedCharacterID: r.CompletedCharacterID,
		CompletedDate:        r.CompletedDate,
		SuccessfulRuns:       r.SuccessfulRuns,
		LocationID:           r.LocationID,
	}
}

type marketOrderRow struct {
	OrderID        int64               `json:"order_id"`
	TypeID         *int64              `json:"type_id"`
	LocationID     *int64              `json:"location_id"`
	RegionID       *int64              `json:"region_id"`
	VolumeTotal    *int64              `json:"volume_total"`
	VolumeRemain   *int64              `json:"volume_remain"`
	Price          decimal.NullDecimal `json:"price"`
	IsBuyOrder     bool                `json:"is_buy_order"`
	IssuedBy       *int64              `json:"issued_by"`
	State          string              `json:"state"`
	Issued         *time.Time          `json:"issued"`
	Range          string              `json:"range"`
	WalletDivision *int64              `json:"wallet_division"`
}

func (r marketOrderRow) toDomain(history bool) domain.MarketOrder {
	state := r.State
	// Open orders carry no state field.
	if state == "" && !history {
		state = "open"
	}
	return domain.MarketOrder{
		ExternalID:     r.OrderID,
		IsHistory:      history,
		TypeID:         r.TypeID,
		LocationID:     r.LocationID,
		RegionID:       r.RegionID,
		VolumeTotal:    r.VolumeTotal,
		VolumeRemain:   r.VolumeRemain,
		Price:          r.Price,
		IsBuyOrder:     r.IsBuyOrder,
		IssuedBy:       r.IssuedBy,
		State:          state,
		Issued:         r.Issued,
		Range:          r.Range,
		WalletDivision: r.WalletDivision,
	}
}

type namedEntity struct {
	Name string `json:"name"`
}

// zeroToNil treats the upstream placeholder id 0 as absent.
func zeroToNil(v *int64) *int64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
