package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/phishy-token-checker/pkg/classifier"
)

// TokenRef identifies a token to analyze. BondingCurve is only meaningful
// on the Solana side, where the curve account must be excluded from the
// receiver set.
type TokenRef struct {
	Address      string
	BondingCurve string
}

// Fetcher is the chain adapter contract the orchestrator drives. Both
// implementations return the exact record shapes the classifier consumes;
// the classifier never learns which chain produced them.
//
// FetchTransfers returns up to 1000 receiving addresses ordered by
// ascending first-transfer time, infra addresses excluded. FetchBuys
// returns a record per address with at least one qualifying purchase;
// absence from the map means "never bought". Failures are explicit errors,
// never an empty success.
type Fetcher interface {
	FetchTransfers(ctx context.Context, token TokenRef) ([]classifier.TransferRecord, error)
	FetchBuys(ctx context.Context, token TokenRef, addrs []string) (map[string]classifier.BuyRecord, error)
}

// SolanaInspector covers the advisory Pump.fun lookups that ride alongside
// the core fetch contract: graduation state, holder concentration and
// display metadata.
type SolanaInspector interface {
	CheckGraduated(ctx context.Context, mint string) (bool, error)
	FetchTopHolders(ctx context.Context, mint string, limit int) ([]TopHolder, error)
	FetchTokenMetadata(ctx context.Context, mint string, ipfs *IPFSClient) (*TokenMetadata, error)
}

const transferLimit = 1000

// rawAmount tolerates the upstream's mixed encodings: aggregate amounts
// arrive as JSON strings or numbers depending on magnitude.
type rawAmount string

func (a *rawAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "null" {
		s = ""
	}
	*a = rawAmount(s)
	return nil
}

// unwrapFirst handles the provider returning the network envelope either
// as an object or as a one-element array.
func unwrapFirst(raw json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		trimmed = list[0]
	}
	return json.Unmarshal(trimmed, out)
}
