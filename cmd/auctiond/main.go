// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/auctiondb"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
	log       = slog.Default().With("pkg", "auctiond")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	loadEnvFile(os.Args[1:])

	app := cli.App{
		Version:   fullVersion(),
		Name:      "auctiond",
		Usage:     "Escrowed English auction node",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			envFileFlag,
			genesisFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			cacheSizeFlag,
			ntpServerFlag,
			ntpToleranceFlag,
			verbosityFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "inspect",
				Usage: "dump persisted data",
				Subcommands: []cli.Command{
					{Name: "listing", Usage: "Load the current listing of an asset", Flags: []cli.Flag{assetFlag}, Action: inspectListingAction},
					{Name: "history", Usage: "Load the settled rounds of an asset", Flags: []cli.Flag{assetFlag}, Action: inspectHistoryAction},
					{Name: "live", Usage: "Load all listings not settled yet", Action: inspectLiveAction},
					{Name: "ledger", Usage: "Load the token ledger snapshot", Action: inspectLedgerAction},
				},
			},
			{
				Name:   "genesis",
				Usage:  "print the genesis in use as yaml",
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	initLogger(ctx)
	defer func() { log.Info("exited") }()

	gene := selectGenesis(ctx)

	var (
		instanceDir string
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
	)
	if ctx.GlobalBool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB, logDB = openMainDB(instanceDir), openLogDB(instanceDir)
	} else {
		mainDB, logDB = openMemMainDB(), openMemLogDB()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	store := auctiondb.New(mainDB, ctx.GlobalInt(cacheSizeFlag.Name))
	ledger := initLedger(gene, store)
	clk := initClock(ctx)

	subs := subscriptions.New(logDB, api.ParseOrigins(ctx.GlobalString(apiCorsFlag.Name)))
	// the log index first, subscribers replay from it
	sink := auction.Sinks{logDB, subs}
	if instanceDir != "" {
		sink = append(sink, auctiondb.NewLedgerSink(store, ledger.State))
	}
	engine := auction.New(meter.AuctionAccountAddr, store, ledger.Registry, clk, ledger.State, sink)
	resumeEngine(engine, logDB)

	apiHandler, apiCloser := api.New(gene.Name, engine, ledger.Registry, clk, logDB, subs, ctx.GlobalString(apiCorsFlag.Name))
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler, engine.Address())
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, engine, clk, instanceDir, apiURL)

	<-exitSignal.Done()
	return nil
}

func genesisAction(ctx *cli.Context) error {
	data, err := selectGenesis(ctx).Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
