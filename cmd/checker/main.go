package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phishy-token-checker/pkg/checker"
	"github.com/phishy-token-checker/pkg/config"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		fail("config load failed: %v", err)
	}

	tokenAddr, bondingCurve, apiKey := parseArgs(os.Args[1:])
	if apiKey != "" {
		cfg.BitqueryAPIKey = apiKey
	}

	if tokenAddr == "" {
		tokenAddr, bondingCurve = promptForToken()
	}
	if cfg.BitqueryAPIKey == "" {
		fmt.Print("Bitquery API key: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		cfg.BitqueryAPIKey = strings.TrimSpace(line)
	}
	if cfg.BitqueryAPIKey == "" {
		fail("no API key: pass one as the last argument or set BITQUERY_API_KEY")
	}

	chain := config.DetectChain(tokenAddr)
	// Unlike the web API, the CLI refuses malformed addresses outright.
	if err := config.ValidateTokenAddress(tokenAddr, chain); err != nil {
		fail("%v", err)
	}

	color.Cyan("🎣 Checking %s token %s", config.TokenTypeLabel(chain), tokenAddr)
	if bondingCurve != "" {
		color.Cyan("   bonding curve: %s", bondingCurve)
	}
	fmt.Println()

	res, err := checker.New(cfg).Check(context.Background(), checker.CheckRequest{
		TokenAddress: tokenAddr,
		BondingCurve: bondingCurve,
	})
	if err != nil {
		fail("%v", err)
	}

	printResult(res)
}

// parseArgs reads token [bonding_curve] [api_key]. The second argument is
// ambiguous: a base58 string of 32-44 chars is a bonding curve address,
// anything else is an API key.
func parseArgs(args []string) (tokenAddr, bondingCurve, apiKey string) {
	if len(args) >= 1 {
		tokenAddr = strings.TrimSpace(args[0])
	}
	if len(args) >= 2 {
		arg := strings.TrimSpace(args[1])
		if !strings.HasPrefix(arg, "0x") && len(arg) >= 32 && len(arg) <= 44 {
			bondingCurve = arg
		} else {
			apiKey = arg
		}
	}
	if len(args) >= 3 {
		apiKey = strings.TrimSpace(args[2])
	}
	return
}

func promptForToken() (tokenAddr, bondingCurve string) {
	r := bufio.NewReader(os.Stdin)
	fmt.Print("Token address: ")
	line, _ := r.ReadString('\n')
	tokenAddr = strings.TrimSpace(line)

	if config.DetectChain(tokenAddr) == config.ChainSolana {
		fmt.Print("Bonding curve address (empty to derive): ")
		line, _ = r.ReadString('\n')
		bondingCurve = strings.TrimSpace(line)
	}
	return
}

func printResult(res *checker.Result) {
	if res.Metadata != nil && res.Metadata.Name != "" {
		sym := res.Metadata.Symbol
		if sym != "" {
			sym = " (" + sym + ")"
		}
		fmt.Printf("Token: %s%s\n", res.Metadata.Name, sym)
	}

	if res.Message != "" {
		color.Yellow("⚠️  %s", res.Message)
		return
	}

	fmt.Printf("Addresses that received the token: %d\n", res.TotalAddresses)
	fmt.Printf("Bought before receiving:           %d\n", res.NormalCount)
	fmt.Printf("Received without buying first:     %d\n\n", res.PhishyCount)

	if !res.Phishy {
		color.Green("✅ CLEAN: every receiving address bought the token first")
		printHolders(res)
		return
	}

	color.New(color.FgRed, color.Bold).Printf("🚨 PHISHY: %d address(es) received this token before ever buying it\n\n", res.PhishyCount)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "First Transfer", "First Buy", "Transferred", "Bought", "Reason"})
	for _, v := range res.Verdicts {
		firstBuy := "never"
		if v.FirstBuyTime != nil {
			firstBuy = *v.FirstBuyTime
		}
		table.Append([]string{
			v.Address,
			v.FirstTransferTime,
			firstBuy,
			v.TotalTransferred.String(),
			v.TotalBought.String(),
			v.Reason,
		})
	}
	table.Render()

	if res.Totals != nil {
		fmt.Println()
		color.Red("Total transferred to phishy addresses: %s", res.Totals.TotalTransferred.String())
		color.Red("Total bought by phishy addresses:      %s", res.Totals.TotalBought.String())
		color.Red("Total received without a buy:          %s", res.Totals.TotalWithoutBuy.String())
	}

	printHolders(res)
}

func printHolders(res *checker.Result) {
	if len(res.TopHolders) == 0 {
		return
	}
	fmt.Println()
	color.Cyan("Top holders:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "Balance", "% Supply"})
	for _, h := range res.TopHolders {
		table.Append([]string{h.Address, h.Balance.String(), h.SupplyPct.String() + "%"})
	}
	table.Render()
	fmt.Printf("Combined top-holder share: %s%%\n", res.TopHolderPct.String())
}

func fail(format string, args ...interface{}) {
	color.Red("❌ "+format, args...)
	os.Exit(1)
}
