// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "subscriptions")

const (
	// max messages replayed from the index on connect
	backlogLimit = 1000
	queueSize    = 256

	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

var (
	errLagged  = errors.New("subscriber lagged behind")
	errBacklog = errors.New("pos is too old")
)

var _ auction.Sink = (*Subscriptions)(nil)

type msgReader interface {
	// Read returns at most limit indexed messages after pos, oldest first.
	Read(ctx context.Context, pos uint64, limit uint64) ([]*message, error)
	// Filter returns the messages of a committed receipt.
	Filter(r *tx.Receipt) []*message
}

type subscriber struct {
	queue chan *tx.Receipt
}

// Subscriptions streams committed engine logs to websocket clients. It must
// be published to after the log index, so that history read on connect
// never misses a receipt.
type Subscriptions struct {
	db       *logdb.LogDB
	upgrader *websocket.Upgrader

	mu   sync.Mutex
	subs map[*subscriber]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

func New(db *logdb.LogDB, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		db: db,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		subs: make(map[*subscriber]struct{}),
		done: make(chan struct{}),
	}
}

// Publish fans r out to every subscriber. A subscriber whose queue is full is
// dropped.
func (s *Subscriptions) Publish(ctx context.Context, r *tx.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		select {
		case sub.queue <- r:
		default:
			delete(s.subs, sub)
			close(sub.queue)
		}
	}
	return nil
}

func (s *Subscriptions) subscribe() *subscriber {
	sub := &subscriber{queue: make(chan *tx.Receipt, queueSize)}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

func (s *Subscriptions) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.queue)
	}
}

func (s *Subscriptions) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	query := req.URL.Query()
	var reader msgReader
	switch mux.Vars(req)["subject"] {
	case "event":
		filter, err := parseEventFilter(query)
		if err != nil {
			return utils.BadRequest(err)
		}
		reader = newEventReader(s.db, filter)
	case "transfer":
		filter, err := parseTransferFilter(query)
		if err != nil {
			return utils.BadRequest(err)
		}
		reader = newTransferReader(s.db, filter)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	pos, err := parsePosition(query)
	if err != nil {
		return utils.BadRequest(err)
	}

	sub := s.subscribe()
	defer s.unsubscribe(sub)

	// subscribed before reading, a receipt is either replayed or queued
	var backlog []*message
	if pos != nil {
		if backlog, err = reader.Read(req.Context(), *pos, backlogLimit+1); err != nil {
			return err
		}
		if len(backlog) > backlogLimit {
			return utils.Forbidden(errBacklog)
		}
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		log.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(conn, reader, sub, backlog); err != nil {
		log.Debug("subscription closed", "subject", mux.Vars(req)["subject"], "err", err.Error())
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, sub *subscriber, backlog []*message) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	replayed := make(map[uint64]bool)
	for _, msg := range backlog {
		replayed[msg.seq] = true
		if err := conn.WriteJSON(msg.body); err != nil {
			return err
		}
	}

	for {
		select {
		case r, ok := <-sub.queue:
			if !ok {
				return errLagged
			}
			if replayed[r.Seq] {
				continue
			}
			for _, msg := range reader.Filter(r) {
				if err := conn.WriteJSON(msg.body); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-s.done:
			return nil
		case <-closed:
			return nil
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
