package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

type Chain string

const (
	ChainBSC    Chain = "bsc"
	ChainSolana Chain = "solana"
)

// Token type labels used in API responses.
const (
	TokenTypeFourMeme = "fourmeme"
	TokenTypePumpFun  = "pumpfun"
)

type Config struct {
	// Upstream data provider
	BitqueryAPIKey  string
	BitqueryURL     string
	BitqueryTimeout time.Duration

	// Bounded retry around upstream transport errors only
	RetryAttempts  int
	RetryBaseDelay time.Duration

	// IPFS gateway for token metadata URIs
	IPFSGateway string
	IPFSTimeout time.Duration

	// Web server
	Port int

	// Holder-distribution check
	TopHolderCount   int
	TopHolderWarnPct float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BitqueryAPIKey:  os.Getenv("BITQUERY_API_KEY"),
		BitqueryURL:     envOr("BITQUERY_URL", "https://streaming.bitquery.io/graphql"),
		BitqueryTimeout: time.Duration(envInt("BITQUERY_TIMEOUT_SECONDS", 120)) * time.Second,

		RetryAttempts:  envInt("UPSTREAM_RETRY_ATTEMPTS", 3),
		RetryBaseDelay: time.Duration(envInt("UPSTREAM_RETRY_BASE_MS", 250)) * time.Millisecond,

		IPFSGateway: envOr("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
		IPFSTimeout: time.Duration(envInt("IPFS_TIMEOUT_SECONDS", 10)) * time.Second,

		Port: envInt("PORT", 8080),

		TopHolderCount:   envInt("TOP_HOLDER_COUNT", 10),
		TopHolderWarnPct: envFloat("TOP_HOLDER_WARN_PCT", 30.0),
	}
	return cfg, nil
}

// Validate reports the missing-credential configuration error. The server
// still starts without a key; every check request fails with a 500 until
// one is configured.
func (c *Config) Validate() error {
	if c.BitqueryAPIKey == "" {
		return fmt.Errorf("BITQUERY_API_KEY is not set: every fetch needs the upstream API credential")
	}
	return nil
}

// ── Chain detection ─────────────────────────────────────────
// Pure string-shape routing. Hex 0x addresses of 42 chars are Four.Meme
// (BSC); base58 strings of 32-44 chars are Pump.fun (Solana); everything
// else falls back to BSC.

func DetectChain(addr string) Chain {
	if strings.HasPrefix(addr, "0x") && len(addr) == 42 && common.IsHexAddress(addr) {
		return ChainBSC
	}
	if !strings.HasPrefix(addr, "0x") && len(addr) >= 32 && len(addr) <= 44 {
		return ChainSolana
	}
	return ChainBSC
}

// NormalizeTokenType maps a caller-supplied token_type override to a chain.
// Returns false for unknown labels.
func NormalizeTokenType(tokenType string) (Chain, bool) {
	switch strings.ToLower(strings.TrimSpace(tokenType)) {
	case "bsc", "fourmeme":
		return ChainBSC, true
	case "solana", "pumpfun":
		return ChainSolana, true
	}
	return "", false
}

// TokenTypeLabel is the label the API reports for a chain.
func TokenTypeLabel(chain Chain) string {
	if chain == ChainSolana {
		return TokenTypePumpFun
	}
	return TokenTypeFourMeme
}

// ValidateTokenAddress rejects addresses that do not parse for their chain.
// Used by flows that refuse to guess, like the CLI.
func ValidateTokenAddress(addr string, chain Chain) error {
	switch chain {
	case ChainBSC:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid BSC token address %q: want 0x followed by 40 hex chars", addr)
		}
	case ChainSolana:
		if _, err := solana.PublicKeyFromBase58(addr); err != nil {
			return fmt.Errorf("invalid Solana mint address %q: %w", addr, err)
		}
	default:
		return fmt.Errorf("unknown chain %q", chain)
	}
	return nil
}

// ── Known infrastructure addresses ──────────────────────────
// Escrow and platform wallets are not end holders; transfers to them are
// excluded from analysis.

var FourMemeEscrowAddresses = []string{
	"0x5c952063c7fc8610ffdb798152d69f0b9550762b",
	"0x757eba15a64468e6535532fcF093Cef90e226F85",
}

var PumpFunInfraAddresses = []string{
	"8psNvWTrdNTiVRNzAgsou9kETXNJm2SXZyaKuJraVRtf",
	"AkTgH1uW6J6j6QHmFNGzZuZwwXaHQsPCpHUriED28tRj",
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
