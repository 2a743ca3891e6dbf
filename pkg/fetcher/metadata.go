package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Token metadata ──────────────────────────────────────────
// Display-only enrichment. The on-chain record carries name, symbol and a
// metadata URI; Pump.fun URIs point at IPFS, so the JSON behind them goes
// through a configurable gateway with its own short timeout.

type TokenMetadata struct {
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	URI         string `json:"uri,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
}

const tokenMetadataQuery = `query ($token: String!) {
  Solana {
    TokenSupplyUpdates(
      limit: {count: 1}
      orderBy: {descending: Block_Time}
      where: {TokenSupplyUpdate: {Currency: {MintAddress: {is: $token}}}}
    ) {
      TokenSupplyUpdate {
        Currency {
          Name
          Symbol
          Uri
        }
      }
    }
  }
}`

type metadataPayload struct {
	Updates []struct {
		TokenSupplyUpdate struct {
			Currency struct {
				Name   string `json:"Name"`
				Symbol string `json:"Symbol"`
				Uri    string `json:"Uri"`
			} `json:"Currency"`
		} `json:"TokenSupplyUpdate"`
	} `json:"TokenSupplyUpdates"`
}

// IPFSClient resolves ipfs:// metadata URIs through an HTTP gateway.
type IPFSClient struct {
	gateway string
	http    *http.Client
}

func NewIPFSClient(gateway string, timeout time.Duration) *IPFSClient {
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &IPFSClient{gateway: gateway, http: &http.Client{Timeout: timeout}}
}

// FetchTokenMetadata returns the mint's on-chain metadata, with the URI
// document resolved when an IPFS client is supplied. The IPFS hop is best
// effort; a gateway failure only costs the extra fields.
func (f *PumpFunFetcher) FetchTokenMetadata(ctx context.Context, mint string, ipfs *IPFSClient) (*TokenMetadata, error) {
	var env solanaEnvelope
	if err := f.client.Query(ctx, tokenMetadataQuery, map[string]interface{}{"token": mint}, &env); err != nil {
		return nil, fmt.Errorf("pumpfun metadata: %w", err)
	}

	var payload metadataPayload
	if err := unwrapFirst(env.Solana, &payload); err != nil {
		return nil, fmt.Errorf("pumpfun metadata decode: %w", err)
	}
	if len(payload.Updates) == 0 {
		return nil, nil
	}

	cur := payload.Updates[0].TokenSupplyUpdate.Currency
	meta := &TokenMetadata{Name: cur.Name, Symbol: cur.Symbol, URI: cur.Uri}

	if ipfs != nil && meta.URI != "" {
		if err := ipfs.resolve(ctx, meta); err != nil {
			log.Warn().Err(err).Str("uri", meta.URI).Msg("ipfs metadata fetch failed")
		}
	}
	return meta, nil
}

func (c *IPFSClient) resolve(ctx context.Context, meta *TokenMetadata) error {
	url := meta.URI
	if strings.HasPrefix(url, "ipfs://") {
		url = c.gateway + strings.TrimPrefix(url, "ipfs://")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ipfs gateway status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var doc struct {
		Description string `json:"description"`
		Image       string `json:"image"`
		Website     string `json:"website"`
		Twitter     string `json:"twitter"`
		Telegram    string `json:"telegram"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("ipfs metadata unmarshal: %w", err)
	}
	meta.Description = doc.Description
	meta.Image = doc.Image
	meta.Website = doc.Website
	meta.Twitter = doc.Twitter
	meta.Telegram = doc.Telegram
	return nil
}
