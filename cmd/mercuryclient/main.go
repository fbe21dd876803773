// Command mercuryclient withdraws statechain coins, repairs interrupted withdrawals, inspects wallet
// history and backup chains, and serves the same operations over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version & commit strings injected at build with -ldflags -X...
var (
	version = "dev"
	commit  = ""
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	walletFlag := &cli.StringFlag{Name: "wallet", Aliases: []string{"w"}, Usage: "wallet name", Required: true}
	coinFlag := &cli.StringFlag{Name: "statechain-id", Aliases: []string{"s"}, Usage: "statechain id of the coin", Required: true}

	return &cli.App{
		Name:    "mercuryclient",
		Usage:   "Mercury statechain client",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "wallet-store", Usage: "wallet store URL (memory, sqlite, sqlitememory, postgres)", EnvVars: []string{"WALLET_STORE"}},
			&cli.StringFlag{Name: "data-folder", Usage: "folder for sqlite databases", EnvVars: []string{"DATA_FOLDER"}},
			&cli.StringFlag{Name: "network", Usage: "network of new wallets (mainnet, testnet, signet, regtest)"},
			&cli.PathFlag{Name: "env-file", Usage: "load settings from a dotenv file; variables already set win", EnvVars: []string{"MERCURY_ENV_FILE"}},
		},
		Commands: []*cli.Command{
			{
				Name:      "withdraw",
				Usage:     "Withdraw a coin to an on-chain address",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					walletFlag,
					coinFlag,
					&cli.StringFlag{Name: "to", Usage: "destination address", Required: true},
					&cli.StringFlag{Name: "fee-rate", Usage: "fee rate in sat/byte, estimated when omitted"},
				},
				Action: withdrawAction,
			},
			{
				Name:   "broadcast-withdrawal",
				Usage:  "Broadcast the coin's recorded withdrawal again",
				Flags:  []cli.Flag{walletFlag, coinFlag},
				Action: broadcastAction,
			},
			{
				Name:   "reconcile",
				Usage:  "Repair a coin whose withdrawal was broadcast but not saved",
				Flags:  []cli.Flag{walletFlag, coinFlag},
				Action: reconcileAction,
			},
			{
				Name:   "confirm-withdrawal",
				Usage:  "Mark the coin WITHDRAWN once its withdrawal is confirmed",
				Flags:  []cli.Flag{walletFlag, coinFlag},
				Action: confirmAction,
			},
			{
				Name:   "verify-backups",
				Usage:  "Check the coin's backup transaction chain",
				Flags:  []cli.Flag{coinFlag},
				Action: verifyBackupsAction,
			},
			{
				Name:   "activities",
				Usage:  "List the wallet's activities, oldest first",
				Flags:  []cli.Flag{walletFlag, &cli.StringFlag{Name: "format", Usage: "json or csv", Value: "json"}},
				Action: activitiesAction,
			},
			{
				Name:  "create-wallet",
				Usage: "Create a wallet, optionally importing coins and backup transactions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "wallet name", Required: true},
					&cli.PathFlag{Name: "coins", Usage: "JSON file with an array of coins"},
					&cli.PathFlag{Name: "backups", Usage: "JSON file mapping statechain ids to backup transactions"},
				},
				Action: createWalletAction,
			},
			{
				Name:   "wallets",
				Usage:  "List wallet names",
				Action: listWalletsAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "listen", Usage: "listen address, overrides api_httpListenAddress"}},
				Action: serveAction,
			},
		},
	}
}
