// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/meterio/meter-auction/auctiondb"
	"github.com/meterio/meter-auction/lvldb"
	cli "gopkg.in/urfave/cli.v1"
)

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

func openStore(ctx *cli.Context) (*auctiondb.Store, *lvldb.LevelDB) {
	instanceDir := makeInstanceDir(ctx, selectGenesis(ctx))
	mainDB := openMainDB(instanceDir)
	return auctiondb.New(mainDB, 16), mainDB
}

func inspectListingAction(ctx *cli.Context) error {
	store, mainDB := openStore(ctx)
	defer mainDB.Close()

	id := ctx.Uint64(assetFlag.Name)
	l, err := store.Get(id)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("asset %v was never listed", id)
	}
	dumper.Dump(l)
	return nil
}

func inspectHistoryAction(ctx *cli.Context) error {
	store, mainDB := openStore(ctx)
	defer mainDB.Close()

	list, err := store.History(ctx.Uint64(assetFlag.Name))
	if err != nil {
		return err
	}
	dumper.Dump(list)
	return nil
}

func inspectLiveAction(ctx *cli.Context) error {
	store, mainDB := openStore(ctx)
	defer mainDB.Close()

	list, err := store.Live()
	if err != nil {
		return err
	}
	fmt.Printf("%v live listings\n", len(list))
	dumper.Dump(list)
	return nil
}

func inspectLedgerAction(ctx *cli.Context) error {
	store, mainDB := openStore(ctx)
	defer mainDB.Close()

	snap, err := store.LoadLedger()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no ledger saved")
	}
	dumper.Dump(snap)
	return nil
}
