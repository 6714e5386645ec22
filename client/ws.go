// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/pooledstaking/pstake/api"
	"github.com/pooledstaking/pstake/pstake"
)

// EventWrapper carries either a received message or the error that ended the stream.
type EventWrapper[T any] struct {
	Data  T
	Error error
}

// Subscription is an open event stream. Close ends it and the channel is closed.
type Subscription struct {
	conn *websocket.Conn
	C    <-chan EventWrapper[*api.Event]
}

func (s *Subscription) Close() error {
	return s.conn.Close()
}

// SubscribeOptions narrows a subscription. Pos is the last sequence already seen.
type SubscribeOptions struct {
	Kinds    []string
	Contract *pstake.Address
	Staker   *pstake.Address
	Pos      *uint64
}

func (o *SubscribeOptions) query() string {
	q := url.Values{}
	if o == nil {
		return ""
	}
	if len(o.Kinds) > 0 {
		q.Set("kind", strings.Join(o.Kinds, ","))
	}
	if o.Contract != nil {
		q.Set("contract", o.Contract.String())
	}
	if o.Staker != nil {
		q.Set("staker", o.Staker.String())
	}
	if o.Pos != nil {
		q.Set("pos", strconv.FormatUint(*o.Pos, 10))
	}
	return q.Encode()
}

// SubscribeEvents streams settlement events as they are committed.
func (c *Client) SubscribeEvents(opts *SubscribeOptions) (*Subscription, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid url - %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("invalid url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/subscriptions/events"
	u.RawQuery = opts.query()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return &Subscription{conn: conn, C: subscribe[api.Event](conn)}, nil
}

func subscribe[T any](conn *websocket.Conn) <-chan EventWrapper[*T] {
	ch := make(chan EventWrapper[*T])
	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				ch <- EventWrapper[*T]{Error: err}
				return
			}
			ch <- EventWrapper[*T]{Data: &data}
		}
	}()
	return ch
}
