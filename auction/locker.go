// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import "sync"

// locker is a mutex per asset id. Entries are dropped when nobody holds or
// waits for them.
type locker struct {
	mu    sync.Mutex
	locks map[uint64]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newLocker() *locker {
	return &locker{locks: make(map[uint64]*lockEntry)}
}

func (l *locker) Lock(id uint64) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
}

func (l *locker) Unlock(id uint64) {
	l.mu.Lock()
	entry := l.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	entry.Unlock()
}

func (l *locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
