package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishy-token-checker/pkg/classifier"
	"github.com/phishy-token-checker/pkg/config"
	"github.com/phishy-token-checker/pkg/fetcher"
)

const (
	bscToken = "0x5c952063c7fc8610ffdb798152d69f0b9550762b"
	solToken = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	solCurve = "8psNvWTrdNTiVRNzAgsou9kETXNJm2SXZyaKuJraVRtf"
)

type stubFetcher struct {
	transfers    []classifier.TransferRecord
	transfersErr error
	buys         map[string]classifier.BuyRecord
	buysErr      error
	gotToken     fetcher.TokenRef
	gotAddrs     []string
}

func (s *stubFetcher) FetchTransfers(_ context.Context, token fetcher.TokenRef) ([]classifier.TransferRecord, error) {
	s.gotToken = token
	return s.transfers, s.transfersErr
}

func (s *stubFetcher) FetchBuys(_ context.Context, token fetcher.TokenRef, addrs []string) (map[string]classifier.BuyRecord, error) {
	s.gotAddrs = addrs
	if s.buysErr != nil {
		return nil, s.buysErr
	}
	if s.buys == nil {
		return map[string]classifier.BuyRecord{}, nil
	}
	return s.buys, nil
}

type stubInspector struct {
	graduated    bool
	graduatedErr error
	holders      []fetcher.TopHolder
	holdersErr   error
	metadata     *fetcher.TokenMetadata
}

func (s *stubInspector) CheckGraduated(context.Context, string) (bool, error) {
	return s.graduated, s.graduatedErr
}

func (s *stubInspector) FetchTopHolders(context.Context, string, int) ([]fetcher.TopHolder, error) {
	return s.holders, s.holdersErr
}

func (s *stubInspector) FetchTokenMetadata(context.Context, string, *fetcher.IPFSClient) (*fetcher.TokenMetadata, error) {
	return s.metadata, nil
}

func testConfig() *config.Config {
	return &config.Config{BitqueryAPIKey: "key", TopHolderCount: 10}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCheck_MissingAddress(t *testing.T) {
	c := NewWithFetchers(testConfig(), &stubFetcher{}, &stubFetcher{}, nil)

	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: "   "})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "required")
}

func TestCheck_MissingAPIKey(t *testing.T) {
	c := NewWithFetchers(&config.Config{}, &stubFetcher{}, &stubFetcher{}, nil)

	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestCheck_RoutesToDetectedChain(t *testing.T) {
	evm := &stubFetcher{}
	sol := &stubFetcher{}
	c := NewWithFetchers(testConfig(), evm, sol, nil)

	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})
	require.NoError(t, err)
	assert.Equal(t, bscToken, evm.gotToken.Address)
	assert.Empty(t, sol.gotToken.Address)

	_, err = c.Check(context.Background(), CheckRequest{TokenAddress: solToken, BondingCurve: solCurve})
	require.NoError(t, err)
	assert.Equal(t, solToken, sol.gotToken.Address)
	assert.Equal(t, solCurve, sol.gotToken.BondingCurve)
}

func TestCheck_TokenTypeOverrideWins(t *testing.T) {
	evm := &stubFetcher{}
	sol := &stubFetcher{}
	c := NewWithFetchers(testConfig(), evm, sol, nil)

	// A BSC-shaped address forced onto the Solana path.
	_, err := c.Check(context.Background(), CheckRequest{
		TokenAddress: solToken,
		TokenType:    "bsc",
	})
	require.NoError(t, err)
	assert.Equal(t, solToken, evm.gotToken.Address)
	assert.Empty(t, sol.gotToken.Address)
}

func TestCheck_DerivesBondingCurveWhenAbsent(t *testing.T) {
	sol := &stubFetcher{}
	c := NewWithFetchers(testConfig(), &stubFetcher{}, sol, nil)

	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: solToken})

	require.NoError(t, err)
	assert.NotEmpty(t, sol.gotToken.BondingCurve)
}

func TestCheck_GraduatedTokenRejected(t *testing.T) {
	c := NewWithFetchers(testConfig(), &stubFetcher{}, &stubFetcher{}, &stubInspector{graduated: true})

	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: solToken, BondingCurve: solCurve})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "graduated", verr.Type)
}

func TestCheck_NoTransfers(t *testing.T) {
	c := NewWithFetchers(testConfig(), &stubFetcher{}, &stubFetcher{}, nil)

	res, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})

	require.NoError(t, err)
	assert.False(t, res.Phishy)
	assert.Equal(t, 0, res.TotalAddresses)
	assert.Equal(t, "No transfers found for this token", res.Message)
	assert.Equal(t, "fourmeme", res.TokenType)
}

func TestCheck_PhishyFlow(t *testing.T) {
	evm := &stubFetcher{
		transfers: []classifier.TransferRecord{
			{Receiver: "0xaaa", FirstTransferTime: "2024-01-01T00:00:00Z", TotalTransferred: dec("100")},
			{Receiver: "0xbbb", FirstTransferTime: "2024-01-02T00:00:00Z", TotalTransferred: dec("50")},
		},
		buys: map[string]classifier.BuyRecord{
			"0xbbb": {FirstBuyTime: "2024-01-01T00:00:00Z", TotalBought: dec("50")},
		},
	}
	c := NewWithFetchers(testConfig(), evm, &stubFetcher{}, nil)

	res, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})

	require.NoError(t, err)
	assert.True(t, res.Phishy)
	assert.Equal(t, 2, res.TotalAddresses)
	assert.Equal(t, 1, res.PhishyCount)
	assert.Equal(t, 1, res.NormalCount)
	require.Len(t, res.Verdicts, 1)
	assert.Equal(t, "0xaaa", res.Verdicts[0].Address)
	require.NotNil(t, res.Totals)
	assert.True(t, res.Totals.TotalTransferred.Equal(dec("100")))
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, evm.gotAddrs, "buys are fetched for every receiver")
}

func TestCheck_CleanTokenHasNoTotals(t *testing.T) {
	evm := &stubFetcher{
		transfers: []classifier.TransferRecord{
			{Receiver: "0xaaa", FirstTransferTime: "2024-01-02T00:00:00Z", TotalTransferred: dec("10")},
		},
		buys: map[string]classifier.BuyRecord{
			"0xaaa": {FirstBuyTime: "2024-01-01T00:00:00Z", TotalBought: dec("10")},
		},
	}
	c := NewWithFetchers(testConfig(), evm, &stubFetcher{}, nil)

	res, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})

	require.NoError(t, err)
	assert.False(t, res.Phishy)
	assert.Nil(t, res.Totals)
	assert.Equal(t, 1, res.NormalCount)
}

func TestCheck_UpstreamFailuresSurface(t *testing.T) {
	boom := errors.New("connection reset")

	c := NewWithFetchers(testConfig(), &stubFetcher{transfersErr: boom}, &stubFetcher{}, nil)
	_, err := c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})
	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.ErrorIs(t, err, boom)

	evm := &stubFetcher{
		transfers: []classifier.TransferRecord{{Receiver: "0xaaa"}},
		buysErr:   boom,
	}
	c = NewWithFetchers(testConfig(), evm, &stubFetcher{}, nil)
	_, err = c.Check(context.Background(), CheckRequest{TokenAddress: bscToken})
	require.ErrorAs(t, err, &uerr)
}

func TestCheck_TopHolderShareSummed(t *testing.T) {
	sol := &stubFetcher{
		transfers: []classifier.TransferRecord{
			{Receiver: "walletA", FirstTransferTime: "2024-01-01T00:00:00Z", TotalTransferred: dec("5")},
		},
	}
	insp := &stubInspector{holders: []fetcher.TopHolder{
		{Address: "whale", SupplyPct: dec("25")},
		{Address: "fish", SupplyPct: dec("0.5")},
	}}
	c := NewWithFetchers(testConfig(), &stubFetcher{}, sol, insp)

	res, err := c.Check(context.Background(), CheckRequest{TokenAddress: solToken, BondingCurve: solCurve})

	require.NoError(t, err)
	require.Len(t, res.TopHolders, 2)
	assert.True(t, res.TopHolderPct.Equal(dec("25.5")))
}

func TestCheck_EnrichmentIsAdvisory(t *testing.T) {
	sol := &stubFetcher{
		transfers: []classifier.TransferRecord{
			{Receiver: "walletA", FirstTransferTime: "2024-01-01T00:00:00Z", TotalTransferred: dec("5")},
		},
	}
	insp := &stubInspector{
		holdersErr: errors.New("holders endpoint down"),
		metadata:   &fetcher.TokenMetadata{Symbol: "TOK"},
	}
	c := NewWithFetchers(testConfig(), &stubFetcher{}, sol, insp)

	res, err := c.Check(context.Background(), CheckRequest{TokenAddress: solToken, BondingCurve: solCurve})

	require.NoError(t, err, "advisory lookups never fail the analysis")
	assert.True(t, res.Phishy)
	assert.Empty(t, res.TopHolders)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, "TOK", res.Metadata.Symbol)
}
