package classifier

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ── Phishy classification ───────────────────────────────────
// An address is phishy when it received tokens by transfer before it ever
// purchased them, or without ever purchasing them. The rules below are
// mutually exclusive and evaluated top to bottom; the first match wins.

const (
	ReasonNeverBought   = "Never bought the token"
	ReasonNoTimestamp   = "Buy record exists but no timestamp"
	ReasonStringCompare = "Transfer before buy (string comparison)"
)

// Classify correlates first-transfer records with first-buy records per
// receiving address. It is pure and chain-agnostic: the verdict list follows
// the input transfer order, and the returned count always equals its length.
func Classify(transfers []TransferRecord, buys map[string]BuyRecord) (int, []PhishyVerdict) {
	var verdicts []PhishyVerdict
	for _, t := range transfers {
		if v, phishy := judge(t, buys); phishy {
			verdicts = append(verdicts, v)
		}
	}
	return len(verdicts), verdicts
}

func judge(t TransferRecord, buys map[string]BuyRecord) (PhishyVerdict, bool) {
	buy, bought := buys[t.Receiver]

	// Rule 1: no buy record at all.
	if !bought {
		return PhishyVerdict{
			Address:               t.Receiver,
			FirstTransferTime:     t.FirstTransferTime,
			TotalTransferred:      t.TotalTransferred,
			TotalBought:           decimal.Zero,
			TransferredWithoutBuy: t.TotalTransferred,
			Reason:                ReasonNeverBought,
		}, true
	}

	withoutBuy := t.TotalTransferred.Sub(buy.TotalBought)

	// Rule 2: buy record exists but carries no timestamp.
	if buy.FirstBuyTime == "" {
		return PhishyVerdict{
			Address:               t.Receiver,
			FirstTransferTime:     t.FirstTransferTime,
			TotalTransferred:      t.TotalTransferred,
			TotalBought:           buy.TotalBought,
			TransferredWithoutBuy: withoutBuy,
			Reason:                ReasonNoTimestamp,
		}, true
	}

	buyTime := buy.FirstBuyTime
	v := PhishyVerdict{
		Address:               t.Receiver,
		FirstTransferTime:     t.FirstTransferTime,
		FirstBuyTime:          &buyTime,
		TotalTransferred:      t.TotalTransferred,
		TotalBought:           buy.TotalBought,
		TransferredWithoutBuy: withoutBuy,
	}

	// Rule 3: both timestamps parse as instants; strict chronological compare.
	tt, terr := time.Parse(time.RFC3339, t.FirstTransferTime)
	bt, berr := time.Parse(time.RFC3339, buy.FirstBuyTime)
	if terr == nil && berr == nil {
		if tt.Before(bt) {
			v.Reason = fmt.Sprintf("Transfer before buy (transfer: %s, buy: %s)", t.FirstTransferTime, buy.FirstBuyTime)
			return v, true
		}
		return PhishyVerdict{}, false
	}

	// Rule 4: a timestamp is malformed. Fall back to comparing the raw
	// strings lexically when both are present. Best effort only: mixed
	// formats or timezone offsets can sort wrong, and that is accepted
	// rather than silently changing observed verdicts.
	if t.FirstTransferTime != "" && t.FirstTransferTime < buy.FirstBuyTime {
		v.Reason = ReasonStringCompare
		return v, true
	}

	return PhishyVerdict{}, false
}

// SumTotals aggregates verdict amounts into summary totals. Pure and total:
// an empty verdict list yields zeroes, never an error.
func SumTotals(verdicts []PhishyVerdict) Totals {
	t := Totals{
		TotalTransferred: decimal.Zero,
		TotalBought:      decimal.Zero,
		TotalWithoutBuy:  decimal.Zero,
	}
	for _, v := range verdicts {
		t.TotalTransferred = t.TotalTransferred.Add(v.TotalTransferred)
		t.TotalBought = t.TotalBought.Add(v.TotalBought)
		t.TotalWithoutBuy = t.TotalWithoutBuy.Add(v.TransferredWithoutBuy)
	}
	return t
}
