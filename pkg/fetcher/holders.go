package fetcher

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/phishy-token-checker/pkg/classifier"
)

// ── Holder distribution ─────────────────────────────────────
// Advisory concentration check on top of the core verdict: how much of
// the supply sits with the largest holders. Pump.fun mints a fixed
// 1,000,000,000 supply, which makes the percentage a plain division.

var pumpFunTotalSupply = decimal.NewFromInt(1_000_000_000)

type TopHolder struct {
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	SupplyPct decimal.Decimal `json:"supply_pct"`
}

const topHoldersQuery = `query ($token: String!, $limit: Int) {
  Solana(dataset: realtime) {
    BalanceUpdates(
      limit: {count: $limit}
      orderBy: {descendingByField: "BalanceUpdate_Holding_maximum"}
      where: {
        BalanceUpdate: {Currency: {MintAddress: {is: $token}}}
        Transaction: {Result: {Success: true}}
      }
    ) {
      BalanceUpdate {
        Account {
          Address
        }
        Holding: PostBalance(maximum: Block_Slot)
      }
    }
  }
}`

type holdersPayload struct {
	BalanceUpdates []struct {
		BalanceUpdate struct {
			Account struct {
				Address string `json:"Address"`
			} `json:"Account"`
			Holding rawAmount `json:"Holding"`
		} `json:"BalanceUpdate"`
	} `json:"BalanceUpdates"`
}

// FetchTopHolders returns the largest current holders with their share of
// supply, largest first.
func (f *PumpFunFetcher) FetchTopHolders(ctx context.Context, mint string, limit int) ([]TopHolder, error) {
	if limit <= 0 {
		limit = 10
	}
	var env solanaEnvelope
	vars := map[string]interface{}{"token": mint, "limit": limit}
	if err := f.client.Query(ctx, topHoldersQuery, vars, &env); err != nil {
		return nil, fmt.Errorf("pumpfun holders: %w", err)
	}

	var payload holdersPayload
	if err := unwrapFirst(env.Solana, &payload); err != nil {
		return nil, fmt.Errorf("pumpfun holders decode: %w", err)
	}

	holders := make([]TopHolder, 0, len(payload.BalanceUpdates))
	for _, u := range payload.BalanceUpdates {
		balance := classifier.ParseAmount(string(u.BalanceUpdate.Holding))
		holders = append(holders, TopHolder{
			Address:   u.BalanceUpdate.Account.Address,
			Balance:   balance,
			SupplyPct: balance.Div(pumpFunTotalSupply).Mul(decimal.NewFromInt(100)).Round(4),
		})
	}
	return holders, nil
}
