package derivation

import (
	"strings"
	"testing"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func id(v int64) *int64 { return &v }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func finishedContract(externalID int64, price, appraisal string) domain.Contract {
	c := domain.Contract{
		ExternalID:     externalID,
		IssuerID:       id(1001),
		AssigneeID:     id(2002),
		Status:         domain.ContractFinished,
		ForCorporation: true,
	}
	if price != "" {
		c.Price = dec(price)
	}
	if appraisal != "" {
		c.AppraisalValue = dec(appraisal)
	}
	return c
}

func TestWalletFlows(t *testing.T) {
	donations := []domain.Donation{
		{JournalRef: 1, MemberID: id(10), Amount: dec("250000"), Memo: "for ships"},
		{JournalRef: 2, MemberID: nil, Amount: dec("99")},
		{JournalRef: 3, MemberID: id(11)},
		{JournalRef: 1, MemberID: id(10), Amount: dec("250000")},
	}

	flows := WalletFlows(donations)

	require.Len(t, flows, 1)
	assert.Equal(t, int64(10), flows[0].MemberID)
	assert.Equal(t, domain.FlowIn, flows[0].Direction)
	assert.Equal(t, domain.SourceWallet, flows[0].Source)
	require.NotNil(t, flows[0].JournalRef)
	assert.Equal(t, int64(1), *flows[0].JournalRef)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, "for ships", flows[0].Note)
}

func TestWalletFlows_UnattributableDonationIsSkipped(t *testing.T) {
	flows := WalletFlows([]domain.Donation{{JournalRef: 7, Amount: dec("500")}})
	assert.Empty(t, flows)
}

func TestContractInFlows_DonationInKind(t *testing.T) {
	c := finishedContract(55, "0", "1000000")

	flows := ContractInFlows([]domain.Contract{c})

	require.Len(t, flows, 1)
	assert.Equal(t, int64(1001), flows[0].MemberID)
	assert.Equal(t, domain.FlowIn, flows[0].Direction)
	assert.Equal(t, domain.SourceContractIn, flows[0].Source)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(1000000)))
	require.NotNil(t, flows[0].ContractRef)
	assert.Equal(t, int64(55), *flows[0].ContractRef)
}

func TestContractInFlows_Filters(t *testing.T) {
	nullPrice := finishedContract(1, "", "10")
	priced := finishedContract(2, "5", "10")
	pending := finishedContract(3, "0", "")
	outstanding := finishedContract(4, "0", "10")
	outstanding.Status = domain.ContractOutstanding
	noIssuer := finishedContract(5, "0", "10")
	noIssuer.IssuerID = nil

	flows := ContractInFlows([]domain.Contract{nullPrice, priced, pending, outstanding, noIssuer})

	require.Len(t, flows, 1)
	assert.Equal(t, int64(1), *flows[0].ContractRef)
}

func TestContractOutFlows_SubsidyPair(t *testing.T) {
	c := finishedContract(77, "100", "150")

	flows, count := ContractOutFlows([]domain.Contract{c}, decimal.NewFromFloat(0.10))

	require.Len(t, flows, 2)
	assert.Equal(t, 1, count)

	out, credit := flows[0], flows[1]
	assert.Equal(t, int64(2002), out.MemberID)
	assert.Equal(t, domain.FlowOut, out.Direction)
	assert.Equal(t, domain.SourceContractOut, out.Source)
	assert.True(t, out.Value.Equal(decimal.NewFromInt(50)), "got %s", out.Value)

	assert.Equal(t, int64(2002), credit.MemberID)
	assert.Equal(t, domain.FlowIn, credit.Direction)
	assert.Equal(t, domain.SourceContractOutSubsidy, credit.Source)
	assert.True(t, credit.Value.Equal(decimal.NewFromInt(5)), "got %s", credit.Value)

	assert.Equal(t, *out.ContractRef, *credit.ContractRef)
}

func TestContractOutFlows_SubsidyExclusion(t *testing.T) {
	above := finishedContract(1, "100", "80")
	equal := finishedContract(2, "100", "100")

	flows, count := ContractOutFlows([]domain.Contract{above, equal}, decimal.NewFromFloat(0.10))

	assert.Empty(t, flows)
	assert.Zero(t, count)
}

func TestContractOutFlows_RequiresCorporationAndAssignee(t *testing.T) {
	notCorp := finishedContract(1, "10", "50")
	notCorp.ForCorporation = false
	noAssignee := finishedContract(2, "10", "50")
	noAssignee.AssigneeID = nil
	noPrice := finishedContract(3, "", "50")

	flows, count := ContractOutFlows([]domain.Contract{notCorp, noAssignee, noPrice}, decimal.NewFromFloat(0.10))

	assert.Empty(t, flows)
	assert.Zero(t, count)
}

func TestIndustryFlows(t *testing.T) {
	jobs := []domain.IndustryJob{
		{ExternalID: 1, InstallerID: id(5), Cost: dec("12000"), Status: domain.JobDelivered, ProductTypeID: id(587), Runs: id(10)},
		{ExternalID: 2, InstallerID: id(5), Cost: dec("12000"), Status: domain.JobActive},
		{ExternalID: 3, InstallerID: nil, Cost: dec("12000"), Status: domain.JobDelivered},
		{ExternalID: 4, InstallerID: id(5), Status: domain.JobDelivered},
	}

	flows := IndustryFlows(jobs, decimal.NewFromInt(1))

	require.Len(t, flows, 1)
	assert.Equal(t, domain.SourceIndustry, flows[0].Source)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, "Industry job 1, product type 587, runs 10", flows[0].Note)
	assert.Nil(t, flows[0].ContractRef)
	assert.Nil(t, flows[0].JournalRef)
}

func TestIndustryFlows_ScalesCost(t *testing.T) {
	jobs := []domain.IndustryJob{{ExternalID: 1, InstallerID: id(5), Cost: dec("1000"), Status: domain.JobDelivered}}

	flows := IndustryFlows(jobs, decimal.NewFromFloat(0.5))

	require.Len(t, flows, 1)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(500)))
}

func TestMarketFlows_SaleCredit(t *testing.T) {
	orders := []domain.MarketOrder{
		{ExternalID: 9, IsHistory: true, IssuedBy: id(3), Price: dec("1000"), VolumeTotal: id(100), VolumeRemain: id(20), State: "expired"},
	}

	flows := MarketFlows(orders, decimal.NewFromFloat(0.01))

	require.Len(t, flows, 1)
	assert.Equal(t, int64(3), flows[0].MemberID)
	assert.Equal(t, domain.SourceMarket, flows[0].Source)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(800)), "got %s", flows[0].Value)
	assert.Equal(t, "Market sell order 9, state expired, sold 80 @ 1000", flows[0].Note)
}

func TestMarketFlows_Filters(t *testing.T) {
	orders := []domain.MarketOrder{
		// open snapshot
		{ExternalID: 1, IsHistory: false, IssuedBy: id(3), Price: dec("10"), VolumeTotal: id(10), VolumeRemain: id(0)},
		// buy side
		{ExternalID: 2, IsHistory: true, IsBuyOrder: true, IssuedBy: id(3), Price: dec("10"), VolumeTotal: id(10), VolumeRemain: id(0)},
		// nothing sold
		{ExternalID: 3, IsHistory: true, IssuedBy: id(3), Price: dec("10"), VolumeTotal: id(10), VolumeRemain: id(10)},
		// unknown total
		{ExternalID: 4, IsHistory: true, IssuedBy: id(3), Price: dec("10"), VolumeRemain: id(0)},
		// no issuer
		{ExternalID: 5, IsHistory: true, Price: dec("10"), VolumeTotal: id(10)},
		// unknown remain counts as fully sold
		{ExternalID: 6, IsHistory: true, IssuedBy: id(3), Price: dec("10"), VolumeTotal: id(10)},
	}

	flows := MarketFlows(orders, decimal.NewFromFloat(0.01))

	require.Len(t, flows, 1)
	assert.True(t, flows[0].Value.Equal(decimal.NewFromInt(1)))
}

func TestDerive_CountsAndNonNegativity(t *testing.T) {
	src := Sources{
		Donations: []domain.Donation{
			{JournalRef: 1, MemberID: id(10), Amount: dec("100")},
			{JournalRef: 2, Amount: dec("100")},
		},
		Contracts: []domain.Contract{
			finishedContract(20, "0", "500"),
			finishedContract(21, "100", "150"),
			finishedContract(22, "100", "80"),
		},
		IndustryJobs: []domain.IndustryJob{
			{ExternalID: 30, InstallerID: id(10), Cost: dec("40"), Status: domain.JobDelivered},
		},
		MarketOrders: []domain.MarketOrder{
			{ExternalID: 40, IsHistory: true, IssuedBy: id(10), Price: dec("1000"), VolumeTotal: id(100), VolumeRemain: id(20)},
		},
	}

	res := Derive(src, DefaultPolicy())

	assert.Equal(t, domain.RuleCounts{Wallet: 1, ContractIn: 1, ContractOut: 1, Industry: 1, Market: 1}, res.Counts)
	assert.Len(t, res.Flows, 6)
	for _, f := range res.Flows {
		assert.False(t, f.Value.IsNegative(), "flow %+v has negative value", f)
		assert.NotZero(t, f.MemberID)
	}
}

func TestDerive_SkipsNonPositiveAmounts(t *testing.T) {
	src := Sources{
		Donations: []domain.Donation{
			{JournalRef: 1, MemberID: id(11), Amount: dec("1000")},
			{JournalRef: 2, MemberID: id(11), Amount: dec("-250")},
			{JournalRef: 3, MemberID: id(11), Amount: dec("0")},
		},
		Contracts: []domain.Contract{
			finishedContract(20, "0", "-500"),
			finishedContract(21, "0", "0"),
		},
		IndustryJobs: []domain.IndustryJob{
			{ExternalID: 30, InstallerID: id(10), Cost: dec("-40"), Status: domain.JobDelivered},
			{ExternalID: 31, InstallerID: id(10), Cost: dec("0"), Status: domain.JobDelivered},
		},
		MarketOrders: []domain.MarketOrder{
			{ExternalID: 40, IsHistory: true, IssuedBy: id(10), Price: dec("-1000"), VolumeTotal: id(100), VolumeRemain: id(20)},
		},
	}

	res := Derive(src, DefaultPolicy())

	assert.Equal(t, domain.RuleCounts{Wallet: 1}, res.Counts)
	require.Len(t, res.Flows, 1)
	assert.True(t, res.Flows[0].Value.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(1), *res.Flows[0].JournalRef)
}

func TestDerive_RoundsToStoredScale(t *testing.T) {
	src := Sources{
		MarketOrders: []domain.MarketOrder{
			{ExternalID: 40, IsHistory: true, IssuedBy: id(10), Price: dec("3.33"), VolumeTotal: id(7)},
		},
	}
	policy := DefaultPolicy()
	policy.MarketCreditFraction = decimal.RequireFromString("0.0015")

	res := Derive(src, policy)

	// 7 * 3.33 * 0.0015 = 0.0349650
	require.Len(t, res.Flows, 1)
	assert.Equal(t, "0.035", res.Flows[0].Value.String())
	assert.LessOrEqual(t, -res.Flows[0].Value.Exponent(), int32(valueScale))
}

func TestDerive_EmptySources(t *testing.T) {
	res := Derive(Sources{}, DefaultPolicy())

	assert.Empty(t, res.Flows)
	assert.Equal(t, domain.RuleCounts{}, res.Counts)
}

func TestDerive_Idempotent(t *testing.T) {
	src := Sources{
		Donations: []domain.Donation{{JournalRef: 1, MemberID: id(10), Amount: dec("100")}},
		Contracts: []domain.Contract{finishedContract(21, "100", "150"), finishedContract(20, "0", "500")},
	}

	first := Derive(src, DefaultPolicy())
	second := Derive(src, DefaultPolicy())

	assert.Equal(t, first, second)
}

func TestDerive_UsesPolicy(t *testing.T) {
	src := Sources{Contracts: []domain.Contract{finishedContract(21, "100", "150")}}
	policy := DefaultPolicy()
	policy.SubsidyCreditFraction = decimal.NewFromFloat(0.5)

	res := Derive(src, policy)

	require.Len(t, res.Flows, 2)
	assert.True(t, res.Flows[1].Value.Equal(decimal.NewFromInt(25)))
}

func TestDonationFromEntry(t *testing.T) {
	entry := domain.JournalEntry{
		ExternalID:   123,
		RefType:      domain.RefTypePlayerDonation,
		Amount:       dec("5000"),
		Description:  "thanks",
		FirstPartyID: id(44),
	}

	d, ok := DonationFromEntry(entry)
	require.True(t, ok)
	assert.Equal(t, int64(123), d.JournalRef)
	assert.Equal(t, int64(44), *d.MemberID)
	assert.Equal(t, "thanks", d.Memo)

	entry.RefType = "bounty_prizes"
	_, ok = DonationFromEntry(entry)
	assert.False(t, ok)
}

func TestTruncateNote(t *testing.T) {
	long := strings.Repeat("ä", maxNoteLength+10)
	assert.Len(t, []rune(truncateNote(long)), maxNoteLength)
	assert.Equal(t, "short", truncateNote("short"))
}
