package classifier

import "github.com/shopspring/decimal"

// TransferRecord is one distinct receiving address for a token: who got it,
// when the first transfer landed, and how much arrived in total. Records are
// built fresh per request by a fetcher and discarded afterwards.
type TransferRecord struct {
	Receiver          string          `json:"receiver"`
	FirstTransferTime string          `json:"first_transfer_time,omitempty"`
	TotalTransferred  decimal.Decimal `json:"total_transferred"`
}

// BuyRecord is an address's first qualifying purchase of a token. The buy
// map holds at most one per address; absence of a record means the address
// never bought.
type BuyRecord struct {
	FirstBuyTime string          `json:"first_buy_time,omitempty"`
	TotalBought  decimal.Decimal `json:"total_amount"`
}

// PhishyVerdict flags one receiving address. TransferredWithoutBuy is
// transferred minus bought with no floor: it goes negative when an address
// bought more than it received, and that is preserved on purpose.
type PhishyVerdict struct {
	Address               string          `json:"address"`
	FirstTransferTime     string          `json:"first_transfer_time"`
	FirstBuyTime          *string         `json:"first_buy_time"`
	TotalTransferred      decimal.Decimal `json:"total_transferred"`
	TotalBought           decimal.Decimal `json:"total_bought"`
	TransferredWithoutBuy decimal.Decimal `json:"transferred_without_buy"`
	Reason                string          `json:"reason"`
}

// Totals sums the three amount fields across all verdicts of one analysis.
type Totals struct {
	TotalTransferred decimal.Decimal `json:"total_transferred"`
	TotalBought      decimal.Decimal `json:"total_bought"`
	TotalWithoutBuy  decimal.Decimal `json:"total_without_buy"`
}

// ParseAmount converts a raw upstream amount into a decimal. Absent, null
// or non-numeric input becomes zero; amount conversion never fails an
// analysis.
func ParseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
