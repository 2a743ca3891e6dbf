package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/phishy-token-checker/pkg/bitquery"
	"github.com/phishy-token-checker/pkg/classifier"
	"github.com/phishy-token-checker/pkg/config"
)

// ── Pump.fun (Solana) adapter ───────────────────────────────

// PumpFunProgramID is the Pump.fun launch program. Every token minted
// through it owns a bonding curve account derived from the mint.
var PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

type PumpFunFetcher struct {
	client  *bitquery.Client
	exclude []string
}

func NewPumpFun(client *bitquery.Client) *PumpFunFetcher {
	return &PumpFunFetcher{client: client, exclude: config.PumpFunInfraAddresses}
}

// DiscoverBondingCurve derives the bonding curve PDA for a Pump.fun mint,
// for requests that do not supply one explicitly.
func DiscoverBondingCurve(mint string) (string, error) {
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return "", fmt.Errorf("invalid mint address %q: %w", mint, err)
	}
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), pk.Bytes()},
		PumpFunProgramID,
	)
	if err != nil {
		return "", fmt.Errorf("derive bonding curve for %s: %w", mint, err)
	}
	return pda.String(), nil
}

const pumpFunTransfersQuery = `query ($token: String, $bondingCurve: String, $excluded: [String!], $limit: Int) {
  Solana {
    Transfers(
      limit: {count: $limit}
      orderBy: {ascendingByField: "Block_first_transfer"}
      where: {
        Transfer: {
          Receiver: {Token: {Owner: {not: $bondingCurve, notIn: $excluded}}}
          Currency: {MintAddress: {is: $token}}
        }
        Transaction: {Result: {Success: true}}
      }
    ) {
      Transfer {
        Receiver {
          Token {
            Owner
          }
        }
      }
      Block {
        first_transfer: Time(minimum: Block_Time)
      }
      total_transferred_amount: sum(of: Transfer_Amount)
    }
  }
}`

const pumpFunBuysQuery = `query ($token: String!, $buyers: [String!]) {
  Solana {
    DEXTradeByTokens(
      orderBy: {ascendingByField: "Block_first_buy"}
      where: {
        Trade: {
          Account: {Token: {Owner: {in: $buyers}}}
          Currency: {MintAddress: {is: $token}}
          Side: {Type: {is: buy}}
        }
        Transaction: {Result: {Success: true}}
      }
    ) {
      Trade {
        Account {
          Token {
            Owner
          }
        }
      }
      Block {
        first_buy: Time(minimum: Block_Time)
      }
      total_bought_amount: sum(of: Trade_Amount)
    }
  }
}`

type solanaEnvelope struct {
	Solana json.RawMessage `json:"Solana"`
}

type solanaTransfersPayload struct {
	Transfers []struct {
		Transfer struct {
			Receiver struct {
				Token struct {
					Owner string `json:"Owner"`
				} `json:"Token"`
			} `json:"Receiver"`
		} `json:"Transfer"`
		Block struct {
			FirstTransfer string `json:"first_transfer"`
		} `json:"Block"`
		TotalTransferred rawAmount `json:"total_transferred_amount"`
	} `json:"Transfers"`
}

type solanaBuysPayload struct {
	Trades []struct {
		Trade struct {
			Account struct {
				Token struct {
					Owner string `json:"Owner"`
				} `json:"Token"`
			} `json:"Account"`
		} `json:"Trade"`
		Block struct {
			FirstBuy string `json:"first_buy"`
		} `json:"Block"`
		TotalBought rawAmount `json:"total_bought_amount"`
	} `json:"DEXTradeByTokens"`
}

func (f *PumpFunFetcher) FetchTransfers(ctx context.Context, token TokenRef) ([]classifier.TransferRecord, error) {
	var env solanaEnvelope
	vars := map[string]interface{}{
		"token":        token.Address,
		"bondingCurve": token.BondingCurve,
		"excluded":     f.exclude,
		"limit":        transferLimit,
	}
	if err := f.client.Query(ctx, pumpFunTransfersQuery, vars, &env); err != nil {
		return nil, fmt.Errorf("pumpfun transfers: %w", err)
	}

	var payload solanaTransfersPayload
	if err := unwrapFirst(env.Solana, &payload); err != nil {
		return nil, fmt.Errorf("pumpfun transfers decode: %w", err)
	}

	records := make([]classifier.TransferRecord, 0, len(payload.Transfers))
	for _, t := range payload.Transfers {
		records = append(records, classifier.TransferRecord{
			Receiver:          t.Transfer.Receiver.Token.Owner,
			FirstTransferTime: t.Block.FirstTransfer,
			TotalTransferred:  classifier.ParseAmount(string(t.TotalTransferred)),
		})
	}
	log.Debug().Str("mint", token.Address).Int("receivers", len(records)).Msg("fetched pumpfun transfers")
	return records, nil
}

func (f *PumpFunFetcher) FetchBuys(ctx context.Context, token TokenRef, addrs []string) (map[string]classifier.BuyRecord, error) {
	buys := map[string]classifier.BuyRecord{}
	if len(addrs) == 0 {
		return buys, nil
	}

	var env solanaEnvelope
	vars := map[string]interface{}{
		"token":  token.Address,
		"buyers": addrs,
	}
	if err := f.client.Query(ctx, pumpFunBuysQuery, vars, &env); err != nil {
		return nil, fmt.Errorf("pumpfun buys: %w", err)
	}

	var payload solanaBuysPayload
	if err := unwrapFirst(env.Solana, &payload); err != nil {
		return nil, fmt.Errorf("pumpfun buys decode: %w", err)
	}

	for _, tr := range payload.Trades {
		buys[tr.Trade.Account.Token.Owner] = classifier.BuyRecord{
			FirstBuyTime: tr.Block.FirstBuy,
			TotalBought:  classifier.ParseAmount(string(tr.TotalBought)),
		}
	}
	return buys, nil
}

// ── Graduation check ────────────────────────────────────────
// A token that migrated off the bonding curve to a liquidity pool is out
// of supported scope; the latest trade venue tells us whether that
// happened.

const latestVenueQuery = `query ($token: String!) {
  Solana {
    DEXTradeByTokens(
      limit: {count: 1}
      orderBy: {descending: Block_Time}
      where: {
        Trade: {Currency: {MintAddress: {is: $token}}}
        Transaction: {Result: {Success: true}}
      }
    ) {
      Trade {
        Dex {
          ProtocolName
        }
      }
    }
  }
}`

type venuePayload struct {
	Trades []struct {
		Trade struct {
			Dex struct {
				ProtocolName string `json:"ProtocolName"`
			} `json:"Dex"`
		} `json:"Trade"`
	} `json:"DEXTradeByTokens"`
}

// CheckGraduated reports whether the mint's most recent trade happened off
// the Pump.fun bonding curve. No trades at all means not graduated.
func (f *PumpFunFetcher) CheckGraduated(ctx context.Context, mint string) (bool, error) {
	var env solanaEnvelope
	if err := f.client.Query(ctx, latestVenueQuery, map[string]interface{}{"token": mint}, &env); err != nil {
		return false, fmt.Errorf("pumpfun venue: %w", err)
	}

	var payload venuePayload
	if err := unwrapFirst(env.Solana, &payload); err != nil {
		return false, fmt.Errorf("pumpfun venue decode: %w", err)
	}
	if len(payload.Trades) == 0 {
		return false, nil
	}
	protocol := strings.ToLower(payload.Trades[0].Trade.Dex.ProtocolName)
	return protocol != "" && protocol != "pump", nil
}
