// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"sort"
	"sync"
)

// Store keeps listings by asset id. Get returns nil, nil for an asset that was
// never listed. Returned listings are copies owned by the caller. Put of a
// settled listing also archives it in the asset's history.
type Store interface {
	Get(assetID uint64) (*Listing, error)
	Put(l *Listing) error
	History(assetID uint64) ([]*Listing, error)
	Live() ([]*Listing, error)
}

// MemStore is a Store kept in memory.
type MemStore struct {
	mu      sync.RWMutex
	current map[uint64]*Listing
	history map[uint64][]*Listing
}

func NewMemStore() *MemStore {
	return &MemStore{
		current: make(map[uint64]*Listing),
		history: make(map[uint64][]*Listing),
	}
}

func (s *MemStore) Get(assetID uint64) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.current[assetID]; ok {
		return l.Copy(), nil
	}
	return nil, nil
}

func (s *MemStore) Put(l *Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[l.AssetID] = l.Copy()
	if l.Settled {
		s.history[l.AssetID] = append(s.history[l.AssetID], l.Copy())
	}
	return nil
}

func (s *MemStore) History(assetID uint64) ([]*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Listing, 0, len(s.history[assetID]))
	for _, l := range s.history[assetID] {
		list = append(list, l.Copy())
	}
	return list, nil
}

func (s *MemStore) Live() ([]*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Listing, 0)
	for _, l := range s.current {
		if !l.Settled {
			list = append(list, l.Copy())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AssetID < list[j].AssetID })
	return list, nil
}
