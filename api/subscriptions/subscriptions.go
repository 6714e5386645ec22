// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/api/utils"
	"github.com/pooledstaking/pstake/log"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/pool"
	"github.com/pooledstaking/pstake/pstake"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	readBatch = 256
)

type Subscriptions struct {
	pool           *pool.Pool
	db             *logdb.LogDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(pool *pool.Pool, db *logdb.LogDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		pool:           pool,
		db:             db,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddressQuery(req *http.Request, name string) (*pstake.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := pstake.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &addr, nil
}

func (s *Subscriptions) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	ef := &api.EventFilter{}
	if kinds := req.URL.Query().Get("kind"); kinds != "" {
		ef.Kinds = strings.Split(kinds, ",")
	}
	var err error
	if ef.Contract, err = parseAddressQuery(req, "contract"); err != nil {
		return nil, err
	}
	if ef.Staker, err = parseAddressQuery(req, "staker"); err != nil {
		return nil, err
	}
	filter, err := ef.Convert()
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	return filter, nil
}

// parsePosition returns the seq after which events are streamed. Without pos only events
// committed after the subscription starts are sent.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	best := s.pool.LastSeq()
	pos, err := utils.QueryUint64(req, "pos", best)
	if err != nil {
		return 0, err
	}
	if pos > best {
		return 0, utils.BadRequest(fmt.Errorf("pos: %d is ahead of the newest event %d", pos, best))
	}
	if best-pos > s.backtraceLimit {
		return 0, utils.Forbidden(fmt.Errorf("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := s.parseFilter(req)
	if err != nil {
		return err
	}
	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	id := uuid.New()
	logger.Debug("subscription opened", "id", id, "pos", pos)
	defer logger.Debug("subscription closed", "id", id)

	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.pipe(req.Context(), conn, newEventReader(s.db, pos, filter, readBatch), closed); err != nil {
		logger.Debug("subscription failed", "id", id, "err", err)
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// taken before reading so a commit racing the read still wakes us
		waiter := s.pool.NewWaiter()
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-waiter.C():
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends all subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
