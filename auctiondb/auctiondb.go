// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auctiondb persists listings in leveldb.
package auctiondb

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/pkg/errors"
)

var (
	_ auction.Store = (*Store)(nil)
	_ auction.Sink  = (*LedgerSink)(nil)
)

// Store is an auction.Store on leveldb with an LRU of decoded listings.
type Store struct {
	db     *lvldb.LevelDB
	cache  *lru.Cache
	logger *slog.Logger
}

// New creates a store keeping up to cacheSize listings decoded in memory.
func New(db *lvldb.LevelDB, cacheSize int) *Store {
	cache, _ := lru.New(cacheSize)
	return &Store{
		db:     db,
		cache:  cache,
		logger: slog.Default().With("pkg", "auctiondb"),
	}
}

func (s *Store) Get(assetID uint64) (*auction.Listing, error) {
	if cached, ok := s.cache.Get(assetID); ok {
		return cached.(*auction.Listing).Copy(), nil
	}
	l, err := loadListing(s.db, assetID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load listing %v", assetID)
	}
	s.cache.Add(assetID, l)
	return l.Copy(), nil
}

func (s *Store) Put(l *auction.Listing) error {
	batch := s.db.NewBatch()
	if err := saveListing(batch, l); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		s.cache.Remove(l.AssetID)
		return errors.Wrapf(err, "write listing %v", l.AssetID)
	}
	s.cache.Add(l.AssetID, l.Copy())
	return nil
}

func (s *Store) History(assetID uint64) ([]*auction.Listing, error) {
	it := s.db.NewIterator(assetKey(historyPrefix, assetID))
	defer it.Release()

	list := make([]*auction.Listing, 0)
	for it.Next() {
		l, err := auction.DecodeListing(it.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "decode history of %v", assetID)
		}
		list = append(list, l)
	}
	return list, it.Error()
}

func (s *Store) Live() ([]*auction.Listing, error) {
	it := s.db.NewIterator(listingPrefix)
	defer it.Release()

	list := make([]*auction.Listing, 0)
	for it.Next() {
		l, err := auction.DecodeListing(it.Value())
		if err != nil {
			s.logger.Warn("skip undecodable listing", "key", it.Key(), "err", err.Error())
			continue
		}
		if !l.Settled {
			list = append(list, l)
		}
	}
	return list, it.Error()
}
