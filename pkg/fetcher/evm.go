package fetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/phishy-token-checker/pkg/bitquery"
	"github.com/phishy-token-checker/pkg/classifier"
	"github.com/phishy-token-checker/pkg/config"
)

// ── Four.Meme (BSC) adapter ─────────────────────────────────

type FourMemeFetcher struct {
	client  *bitquery.Client
	exclude []string
}

func NewFourMeme(client *bitquery.Client) *FourMemeFetcher {
	return &FourMemeFetcher{client: client, exclude: config.FourMemeEscrowAddresses}
}

const fourMemeTransfersQuery = `query ($token: String, $excluded: [String!], $limit: Int) {
  EVM(network: bsc, dataset: realtime) {
    Transfers(
      limit: {count: $limit}
      orderBy: {ascendingByField: "Block_first_transfer"}
      where: {
        TransactionStatus: {Success: true}
        Transfer: {
          Receiver: {notIn: $excluded}
          Currency: {SmartContract: {is: $token}}
        }
      }
    ) {
      Transfer {
        Receiver
      }
      Block {
        first_transfer: Time(minimum: Block_Time)
      }
      total_transferred_amount: sum(of: Transfer_Amount)
    }
  }
}`

const fourMemeBuysQuery = `query ($token: String!, $buyers: [String!]) {
  EVM(network: bsc, dataset: realtime) {
    DEXTradeByTokens(
      orderBy: {descendingByField: "Block_first_buy"}
      where: {
        Trade: {
          Currency: {SmartContract: {is: $token}}
          Side: {Type: {is: buy}}
          Buyer: {in: $buyers}
        }
        TransactionStatus: {Success: true}
      }
    ) {
      Trade {
        Buyer
      }
      Block {
        first_buy: Time(minimum: Block_Time)
      }
      total_bought_amount: sum(of: Trade_Amount)
    }
  }
}`

type evmEnvelope struct {
	EVM json.RawMessage `json:"EVM"`
}

type evmTransfersPayload struct {
	Transfers []struct {
		Transfer struct {
			Receiver string `json:"Receiver"`
		} `json:"Transfer"`
		Block struct {
			FirstTransfer string `json:"first_transfer"`
		} `json:"Block"`
		TotalTransferred rawAmount `json:"total_transferred_amount"`
	} `json:"Transfers"`
}

type evmBuysPayload struct {
	Trades []struct {
		Trade struct {
			Buyer string `json:"Buyer"`
		} `json:"Trade"`
		Block struct {
			FirstBuy string `json:"first_buy"`
		} `json:"Block"`
		TotalBought rawAmount `json:"total_bought_amount"`
	} `json:"DEXTradeByTokens"`
}

func (f *FourMemeFetcher) FetchTransfers(ctx context.Context, token TokenRef) ([]classifier.TransferRecord, error) {
	var env evmEnvelope
	vars := map[string]interface{}{
		"token":    token.Address,
		"excluded": f.exclude,
		"limit":    transferLimit,
	}
	if err := f.client.Query(ctx, fourMemeTransfersQuery, vars, &env); err != nil {
		return nil, fmt.Errorf("fourmeme transfers: %w", err)
	}

	var payload evmTransfersPayload
	if err := unwrapFirst(env.EVM, &payload); err != nil {
		return nil, fmt.Errorf("fourmeme transfers decode: %w", err)
	}

	records := make([]classifier.TransferRecord, 0, len(payload.Transfers))
	for _, t := range payload.Transfers {
		records = append(records, classifier.TransferRecord{
			Receiver:          t.Transfer.Receiver,
			FirstTransferTime: t.Block.FirstTransfer,
			TotalTransferred:  classifier.ParseAmount(string(t.TotalTransferred)),
		})
	}
	log.Debug().Str("token", token.Address).Int("receivers", len(records)).Msg("fetched fourmeme transfers")
	return records, nil
}

func (f *FourMemeFetcher) FetchBuys(ctx context.Context, token TokenRef, addrs []string) (map[string]classifier.BuyRecord, error) {
	buys := map[string]classifier.BuyRecord{}
	if len(addrs) == 0 {
		return buys, nil
	}

	var env evmEnvelope
	vars := map[string]interface{}{
		"token":  token.Address,
		"buyers": addrs,
	}
	if err := f.client.Query(ctx, fourMemeBuysQuery, vars, &env); err != nil {
		return nil, fmt.Errorf("fourmeme buys: %w", err)
	}

	var payload evmBuysPayload
	if err := unwrapFirst(env.EVM, &payload); err != nil {
		return nil, fmt.Errorf("fourmeme buys decode: %w", err)
	}

	for _, tr := range payload.Trades {
		buys[tr.Trade.Buyer] = classifier.BuyRecord{
			FirstBuyTime: tr.Block.FirstBuy,
			TotalBought:  classifier.ParseAmount(string(tr.TotalBought)),
		}
	}
	return buys, nil
}
