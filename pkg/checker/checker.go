package checker

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phishy-token-checker/pkg/bitquery"
	"github.com/phishy-token-checker/pkg/classifier"
	"github.com/phishy-token-checker/pkg/config"
	"github.com/phishy-token-checker/pkg/fetcher"
	"github.com/phishy-token-checker/pkg/retry"
)

// Checker runs one full analysis: detect chain, fetch transfers, fetch
// buys for the receivers, classify, aggregate. Fetches are sequential;
// a slow upstream stalls the request rather than racing it.
type Checker struct {
	cfg       *config.Config
	fourMeme  fetcher.Fetcher
	pumpFun   fetcher.Fetcher
	inspector fetcher.SolanaInspector
	ipfs      *fetcher.IPFSClient
}

func New(cfg *config.Config) *Checker {
	policy := retry.Policy{
		MaxAttempts: cfg.RetryAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    5 * time.Second,
	}
	bq := bitquery.New(cfg.BitqueryURL, cfg.BitqueryAPIKey, cfg.BitqueryTimeout, policy)
	pumpFun := fetcher.NewPumpFun(bq)
	return &Checker{
		cfg:       cfg,
		fourMeme:  fetcher.NewFourMeme(bq),
		pumpFun:   pumpFun,
		inspector: pumpFun,
		ipfs:      fetcher.NewIPFSClient(cfg.IPFSGateway, cfg.IPFSTimeout),
	}
}

// NewWithFetchers wires explicit adapters in place of the Bitquery-backed
// ones. Tests use it; inspector may be nil to skip the advisory lookups.
func NewWithFetchers(cfg *config.Config, fourMeme, pumpFun fetcher.Fetcher, inspector fetcher.SolanaInspector) *Checker {
	return &Checker{cfg: cfg, fourMeme: fourMeme, pumpFun: pumpFun, inspector: inspector}
}

type CheckRequest struct {
	TokenAddress string
	BondingCurve string
	TokenType    string // optional override: bsc | fourmeme | solana | pumpfun
}

// Result is one completed analysis, request-scoped.
type Result struct {
	TokenAddress   string
	TokenType      string
	Phishy         bool
	Message        string
	TotalAddresses int
	PhishyCount    int
	NormalCount    int
	Verdicts       []classifier.PhishyVerdict
	Totals         *classifier.Totals

	// Advisory enrichment, present only when the lookups succeeded.
	// TopHolderPct is the combined supply share of the returned holders.
	TopHolders   []fetcher.TopHolder
	TopHolderPct decimal.Decimal
	Metadata     *fetcher.TokenMetadata
}

func (c *Checker) Check(ctx context.Context, req CheckRequest) (*Result, error) {
	addr := strings.TrimSpace(req.TokenAddress)
	if addr == "" {
		return nil, &ValidationError{Msg: "Token address is required"}
	}
	if c.cfg.BitqueryAPIKey == "" {
		return nil, &ConfigError{Msg: "Server configuration error: API key not found. Please contact the administrator."}
	}

	chain, ok := config.NormalizeTokenType(req.TokenType)
	if !ok {
		chain = config.DetectChain(addr)
	}

	token := fetcher.TokenRef{Address: addr}
	f := c.fourMeme
	if chain == config.ChainSolana {
		f = c.pumpFun
		curve := strings.TrimSpace(req.BondingCurve)
		if curve == "" {
			derived, err := fetcher.DiscoverBondingCurve(addr)
			if err != nil {
				return nil, &ValidationError{Msg: err.Error()}
			}
			curve = derived
			log.Debug().Str("mint", addr).Str("curve", curve).Msg("derived bonding curve")
		}
		token.BondingCurve = curve

		if c.inspector != nil {
			graduated, err := c.inspector.CheckGraduated(ctx, addr)
			if err != nil {
				return nil, upstream("graduation check", err)
			}
			if graduated {
				return nil, &ValidationError{
					Msg:  "Token has graduated from the bonding curve and is not supported",
					Type: "graduated",
				}
			}
		}
	}

	result := &Result{
		TokenAddress: addr,
		TokenType:    config.TokenTypeLabel(chain),
	}

	transfers, err := f.FetchTransfers(ctx, token)
	if err != nil {
		return nil, upstream("fetch transfers", err)
	}
	if len(transfers) == 0 {
		result.Message = "No transfers found for this token"
		return result, nil
	}

	addrs := make([]string, 0, len(transfers))
	for _, t := range transfers {
		addrs = append(addrs, t.Receiver)
	}
	buys, err := f.FetchBuys(ctx, token, addrs)
	if err != nil {
		return nil, upstream("fetch buys", err)
	}

	phishyCount, verdicts := classifier.Classify(transfers, buys)

	result.TotalAddresses = len(transfers)
	result.PhishyCount = phishyCount
	result.NormalCount = len(transfers) - phishyCount
	result.Verdicts = verdicts
	result.Phishy = phishyCount > 0
	if result.Phishy {
		totals := classifier.SumTotals(verdicts)
		result.Totals = &totals
	}

	if chain == config.ChainSolana && c.inspector != nil {
		c.enrich(ctx, addr, result)
	}

	log.Info().
		Str("token", addr).
		Str("type", result.TokenType).
		Int("addresses", result.TotalAddresses).
		Int("phishy", result.PhishyCount).
		Bool("verdict", result.Phishy).
		Msg("🎣 analysis complete")
	return result, nil
}

// enrich attaches holder concentration and display metadata. Both lookups
// are advisory: a failure is logged and the field left empty, never a
// failed analysis.
func (c *Checker) enrich(ctx context.Context, mint string, result *Result) {
	holders, err := c.inspector.FetchTopHolders(ctx, mint, c.cfg.TopHolderCount)
	if err != nil {
		log.Warn().Err(err).Str("mint", mint).Msg("top holder fetch failed")
	} else {
		result.TopHolders = holders
		for _, h := range holders {
			result.TopHolderPct = result.TopHolderPct.Add(h.SupplyPct)
		}
		if result.TopHolderPct.GreaterThan(decimal.NewFromFloat(c.cfg.TopHolderWarnPct)) {
			log.Warn().Str("mint", mint).Str("pct", result.TopHolderPct.String()).Msg("⚠️ concentrated holder distribution")
		}
	}

	meta, err := c.inspector.FetchTokenMetadata(ctx, mint, c.ipfs)
	if err != nil {
		log.Warn().Err(err).Str("mint", mint).Msg("metadata fetch failed")
	} else {
		result.Metadata = meta
	}
}
