package accounting

import (
	"testing"

	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flow(dir domain.FlowDirection, value int64) domain.FlowRecord {
	return domain.FlowRecord{MemberID: 1, Direction: dir, Source: domain.SourceWallet, Value: decimal.NewFromInt(value)}
}

func TestCalculateSignedValue(t *testing.T) {
	in, err := CalculateSignedValue(flow(domain.FlowIn, 50))
	require.NoError(t, err)
	assert.True(t, in.Equal(decimal.NewFromInt(50)))

	out, err := CalculateSignedValue(flow(domain.FlowOut, 50))
	require.NoError(t, err)
	assert.True(t, out.Equal(decimal.NewFromInt(-50)))

	_, err = CalculateSignedValue(flow("sideways", 50))
	assert.Error(t, err)
}

func TestSumByDirection(t *testing.T) {
	totalIn, totalOut, net := SumByDirection([]domain.FlowRecord{
		flow(domain.FlowIn, 300),
		flow(domain.FlowOut, 100),
		flow(domain.FlowIn, 5),
	})
	assert.True(t, totalIn.Equal(decimal.NewFromInt(305)))
	assert.True(t, totalOut.Equal(decimal.NewFromInt(100)))
	assert.True(t, net.Equal(decimal.NewFromInt(205)))

	totalIn, totalOut, net = SumByDirection(nil)
	assert.True(t, totalIn.IsZero())
	assert.True(t, totalOut.IsZero())
	assert.True(t, net.IsZero())
}

func TestSharesFor(t *testing.T) {
	unit := decimal.NewFromInt(1_000_000_000)
	assert.True(t, SharesFor(decimal.NewFromInt(2_500_000_000), unit).Equal(decimal.RequireFromString("2.5")))
	assert.True(t, SharesFor(decimal.NewFromInt(-1_000_000_000), unit).Equal(decimal.NewFromInt(-1)))
	assert.True(t, SharesFor(decimal.NewFromInt(100), decimal.Zero).IsZero())
	assert.True(t, SharesFor(decimal.NewFromInt(100), decimal.NewFromInt(-5)).IsZero())
}

func TestValidateFlow(t *testing.T) {
	assert.NoError(t, ValidateFlow(flow(domain.FlowIn, 0)))
	assert.Error(t, ValidateFlow(flow(domain.FlowIn, -1)))

	bad := flow(domain.FlowOut, 1)
	bad.Source = "lottery"
	assert.Error(t, ValidateFlow(bad))
}

func TestFormatWithPrecision(t *testing.T) {
	tests := []struct {
		amount    string
		precision int
		want      string
	}{
		{"0", 2, "0.00"},
		{"999", 0, "999"},
		{"1000", 0, "1,000"},
		{"1234567.891", 2, "1,234,567.89"},
		{"-1234567.5", 1, "-1,234,567.5"},
		{"123456", 2, "123,456.00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWithPrecision(decimal.RequireFromString(tt.amount), tt.precision))
		})
	}
}
