package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func transfer(addr, ts, amount string) TransferRecord {
	return TransferRecord{Receiver: addr, FirstTransferTime: ts, TotalTransferred: dec(amount)}
}

func TestClassify_NeverBought(t *testing.T) {
	transfers := []TransferRecord{transfer("A", "2024-01-01T00:00:00Z", "100")}

	count, verdicts := Classify(transfers, map[string]BuyRecord{})

	require.Equal(t, 1, count)
	require.Len(t, verdicts, 1)
	v := verdicts[0]
	assert.Equal(t, "A", v.Address)
	assert.Equal(t, ReasonNeverBought, v.Reason)
	assert.Nil(t, v.FirstBuyTime)
	assert.True(t, v.TotalBought.IsZero())
	assert.True(t, v.TransferredWithoutBuy.Equal(dec("100")))
}

func TestClassify_TransferBeforeBuy(t *testing.T) {
	transfers := []TransferRecord{transfer("B", "2024-01-02T00:00:00Z", "50")}
	buys := map[string]BuyRecord{
		"B": {FirstBuyTime: "2024-01-03T00:00:00Z", TotalBought: dec("50")},
	}

	count, verdicts := Classify(transfers, buys)

	require.Equal(t, 1, count)
	v := verdicts[0]
	require.NotNil(t, v.FirstBuyTime)
	assert.Equal(t, "2024-01-03T00:00:00Z", *v.FirstBuyTime)
	assert.True(t, v.TransferredWithoutBuy.IsZero())
	assert.Contains(t, v.Reason, "Transfer before buy")
	assert.Contains(t, v.Reason, "2024-01-02T00:00:00Z")
	assert.Contains(t, v.Reason, "2024-01-03T00:00:00Z")
}

func TestClassify_BoughtBeforeReceiving(t *testing.T) {
	transfers := []TransferRecord{transfer("C", "2024-01-02T00:00:00Z", "50")}
	buys := map[string]BuyRecord{
		"C": {FirstBuyTime: "2024-01-01T00:00:00Z", TotalBought: dec("50")},
	}

	count, verdicts := Classify(transfers, buys)

	assert.Equal(t, 0, count)
	assert.Empty(t, verdicts)
}

func TestClassify_EqualTimestampsNotPhishy(t *testing.T) {
	// Strict comparison: bought at the same instant as the transfer is normal.
	transfers := []TransferRecord{transfer("D", "2024-01-01T00:00:00Z", "10")}
	buys := map[string]BuyRecord{
		"D": {FirstBuyTime: "2024-01-01T00:00:00Z", TotalBought: dec("10")},
	}

	count, _ := Classify(transfers, buys)
	assert.Equal(t, 0, count)
}

func TestClassify_BuyRecordWithoutTimestamp(t *testing.T) {
	transfers := []TransferRecord{transfer("E", "2024-01-01T00:00:00Z", "80")}
	buys := map[string]BuyRecord{
		"E": {TotalBought: dec("30")},
	}

	count, verdicts := Classify(transfers, buys)

	require.Equal(t, 1, count)
	v := verdicts[0]
	assert.Equal(t, ReasonNoTimestamp, v.Reason)
	assert.Nil(t, v.FirstBuyTime)
	assert.True(t, v.TotalBought.Equal(dec("30")))
	assert.True(t, v.TransferredWithoutBuy.Equal(dec("50")))
}

func TestClassify_StringComparisonFallback(t *testing.T) {
	cases := []struct {
		name         string
		transferTime string
		buyTime      string
		wantPhishy   bool
	}{
		{"malformed transfer sorts before buy", "2024-01-01 00:00:00", "2024-01-02 00:00:00", true},
		{"malformed transfer sorts after buy", "2024-01-03 00:00:00", "2024-01-02 00:00:00", false},
		{"malformed buy sorts after transfer", "2024-01-01T00:00:00Z", "garbage", true},
		{"malformed buy sorts before transfer", "2024-01-01T00:00:00Z", "0000-00-00", false},
		{"empty transfer time never falls back", "", "2024-01-02T00:00:00Z", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transfers := []TransferRecord{transfer("F", tc.transferTime, "5")}
			buys := map[string]BuyRecord{
				"F": {FirstBuyTime: tc.buyTime, TotalBought: dec("1")},
			}

			count, verdicts := Classify(transfers, buys)

			if tc.wantPhishy {
				require.Equal(t, 1, count)
				assert.Equal(t, ReasonStringCompare, verdicts[0].Reason)
			} else {
				assert.Equal(t, 0, count)
			}
		})
	}
}

func TestClassify_NegativeTransferredWithoutBuy(t *testing.T) {
	// Bought more than received: the difference stays negative.
	transfers := []TransferRecord{transfer("G", "2024-01-01T00:00:00Z", "10")}
	buys := map[string]BuyRecord{
		"G": {FirstBuyTime: "2024-01-02T00:00:00Z", TotalBought: dec("25")},
	}

	count, verdicts := Classify(transfers, buys)

	require.Equal(t, 1, count)
	assert.True(t, verdicts[0].TransferredWithoutBuy.Equal(dec("-15")))
}

func TestClassify_WithoutBuyAlwaysTransferredMinusBought(t *testing.T) {
	transfers := []TransferRecord{
		transfer("A", "2024-01-01T00:00:00Z", "100"),
		transfer("B", "2024-01-01T00:00:00Z", "40"),
		transfer("C", "2024-01-01T00:00:00Z", "7.5"),
	}
	buys := map[string]BuyRecord{
		"B": {FirstBuyTime: "2024-02-01T00:00:00Z", TotalBought: dec("100")},
		"C": {TotalBought: dec("2.5")},
	}

	_, verdicts := Classify(transfers, buys)

	require.Len(t, verdicts, 3)
	for _, v := range verdicts {
		assert.True(t, v.TransferredWithoutBuy.Equal(v.TotalTransferred.Sub(v.TotalBought)),
			"verdict for %s", v.Address)
	}
}

func TestClassify_OrderPreservedAndIdempotent(t *testing.T) {
	transfers := []TransferRecord{
		transfer("z", "2024-01-05T00:00:00Z", "1"),
		transfer("a", "2024-01-06T00:00:00Z", "2"),
		transfer("normal", "2024-01-07T00:00:00Z", "3"),
		transfer("m", "2024-01-08T00:00:00Z", "4"),
	}
	buys := map[string]BuyRecord{
		"normal": {FirstBuyTime: "2024-01-01T00:00:00Z", TotalBought: dec("3")},
	}

	count1, first := Classify(transfers, buys)
	count2, second := Classify(transfers, buys)

	require.Equal(t, 3, count1)
	assert.Equal(t, count1, len(first))
	assert.Equal(t, "z", first[0].Address)
	assert.Equal(t, "a", first[1].Address)
	assert.Equal(t, "m", first[2].Address)

	assert.Equal(t, count1, count2)
	assert.Equal(t, first, second)
}

func TestClassify_NoTransfers(t *testing.T) {
	count, verdicts := Classify(nil, map[string]BuyRecord{"A": {}})
	assert.Equal(t, 0, count)
	assert.Empty(t, verdicts)
}

func TestSumTotals(t *testing.T) {
	verdicts := []PhishyVerdict{
		{TotalTransferred: dec("100"), TotalBought: dec("0"), TransferredWithoutBuy: dec("100")},
		{TotalTransferred: dec("10"), TotalBought: dec("25"), TransferredWithoutBuy: dec("-15")},
	}

	totals := SumTotals(verdicts)

	assert.True(t, totals.TotalTransferred.Equal(dec("110")))
	assert.True(t, totals.TotalBought.Equal(dec("25")))
	assert.True(t, totals.TotalWithoutBuy.Equal(dec("85")))
}

func TestSumTotals_Empty(t *testing.T) {
	totals := SumTotals(nil)
	assert.True(t, totals.TotalTransferred.IsZero())
	assert.True(t, totals.TotalBought.IsZero())
	assert.True(t, totals.TotalWithoutBuy.IsZero())
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"12.345", "12.345"},
		{"", "0"},
		{"not-a-number", "0"},
		{"1e3", "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.True(t, ParseAmount(tc.in).Equal(dec(tc.want)))
		})
	}
}
