// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/auctiondb"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	cli "gopkg.in/urfave/cli.v1"
)

func initLogger(ctx *cli.Context) {
	w := os.Stderr
	handler := tint.NewHandler(w, &tint.Options{
		Level:      logLevel(ctx.GlobalInt(verbosityFlag.Name)),
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	})
	slog.SetDefault(slog.New(handler))
	log = slog.Default().With("pkg", "auctiond")
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.GlobalString(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet()
	}
	gene, err := genesis.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis [%v]: %v", path, err))
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(instanceDir string) *lvldb.LevelDB {
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              64,
		OpenFilesCacheCapacity: 256,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func openLogDB(instanceDir string) *logdb.LogDB {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// initLedger builds the token ledger of gene, then replaces its content by the
// snapshot saved by a previous run, if any.
func initLedger(gene *genesis.Genesis, store *auctiondb.Store) *genesis.Ledger {
	ledger, err := gene.Build(context.Background(), meter.AuctionAccountAddr)
	if err != nil {
		fatal("build genesis ledger:", err)
	}
	snap, err := store.LoadLedger()
	if err != nil {
		fatal("load ledger:", err)
	}
	if snap != nil {
		ledger.State.Restore(snap)
		log.Info("ledger restored", "balances", len(snap.Balances), "assets", len(snap.Owners))
	}
	return ledger
}

func initClock(ctx *cli.Context) clock.Clock {
	server := ctx.GlobalString(ntpServerFlag.Name)
	if server == "" {
		return clock.System{}
	}
	clk, err := clock.NewOffset(server, ctx.GlobalDuration(ntpToleranceFlag.Name))
	if err != nil {
		log.Warn("failed to access NTP, using system clock", "server", server, "err", err)
		return clock.System{}
	}
	return clk
}

func resumeEngine(engine *auction.Engine, logDB *logdb.LogDB) {
	seq, err := logDB.LastSeq(context.Background())
	if err != nil {
		fatal("read last receipt:", err)
	}
	if err := engine.ResumeFrom(seq); err != nil {
		fatal("resume engine:", err)
	}
}

func startAPIServer(ctx *cli.Context, handler http.Handler, engine meter.Address) (string, func()) {
	addr := ctx.GlobalString(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	if !isLoopback(addr) {
		log.Warn("API accepts calls on behalf of any account, keep it on a trusted network", "addr", addr)
	}

	timeout := ctx.GlobalInt(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXEngine(handler, engine)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("API server stopped", "err", err.Error())
		}
	}()

	return "http://" + listener.Addr().String() + "/", func() {
		if err := srv.Close(); err != nil {
			log.Warn("could not close API service", "err", err)
		}
		wg.Wait()
	}
}

func printStartupMessage(
	gene *genesis.Genesis,
	engine *auction.Engine,
	clk clock.Clock,
	instanceDir string,
	apiURL string,
) {
	fmt.Printf(`Starting %v
    Network         [ %v %v ]
    Engine          [ %v ]
    Last receipt    [ #%v ]
    Clock           [ %v ]
    Instance dir    [ %v ]
    API portal      [ %v ]
`,
		fullVersion(),
		gene.ID(), gene.Name,
		engine.Address(),
		engine.Seq(),
		time.Unix(int64(clk.Now()), 0),
		func() string {
			if instanceDir == "" {
				return "in memory"
			}
			return instanceDir
		}(),
		apiURL)
}
