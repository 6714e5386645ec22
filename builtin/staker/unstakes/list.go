// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package unstakes keeps unstake requests ordered by maturity time.
package unstakes

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/pstake"
)

var (
	slotHead    = pstake.BytesToBytes32([]byte("unstakes-head"))
	slotTail    = pstake.BytesToBytes32([]byte("unstakes-tail"))
	slotCount   = pstake.BytesToBytes32([]byte("unstakes-count"))
	slotCounter = pstake.BytesToBytes32([]byte("unstakes-counter"))
	slotNodes   = pstake.BytesToBytes32([]byte("unstakes"))
)

// Request asks to release Amount of Staker's stake on Contract once UnstakeAt is reached.
type Request struct {
	ID        uint64
	Staker    pstake.Address
	Contract  pstake.Address
	Amount    *uint256.Int
	UnstakeAt uint64
}

type node struct {
	Request Request
	Prev    uint64
	Next    uint64
}

// List is a doubly linked list of requests sorted by UnstakeAt, ties in insertion order.
type List struct {
	head    *solidity.Uint256
	tail    *solidity.Uint256
	count   *solidity.Uint256
	counter *solidity.Uint256
	nodes   *solidity.Mapping[pstake.Bytes32, node]
}

func New(sctx *solidity.Context) *List {
	return &List{
		head:    solidity.NewUint256(sctx, slotHead),
		tail:    solidity.NewUint256(sctx, slotTail),
		count:   solidity.NewUint256(sctx, slotCount),
		counter: solidity.NewUint256(sctx, slotCounter),
		nodes:   solidity.NewMapping[pstake.Bytes32, node](sctx, slotNodes),
	}
}

func (l *List) getUint64(slot *solidity.Uint256) (uint64, error) {
	v, err := slot.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (l *List) setUint64(slot *solidity.Uint256, v uint64) {
	slot.Set(uint256.NewInt(v))
}

func (l *List) node(id uint64) (*node, error) {
	n, err := l.nodes.Get(pstake.Uint64ToBytes32(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unstake request")
	}
	if n.Request.ID != id {
		return nil, errors.Errorf("unstake request %d missing", id)
	}
	return &n, nil
}

func (l *List) setNode(n *node) error {
	if err := l.nodes.Set(pstake.Uint64ToBytes32(n.Request.ID), *n); err != nil {
		return errors.Wrap(err, "failed to set unstake request")
	}
	return nil
}

// Insert assigns the request an id and links it after the last request maturing no later.
func (l *List) Insert(staker, contract pstake.Address, amount *uint256.Int, unstakeAt uint64) (*Request, error) {
	last, err := l.getUint64(l.counter)
	if err != nil {
		return nil, err
	}
	id := last + 1
	l.setUint64(l.counter, id)

	n := &node{Request: Request{
		ID:        id,
		Staker:    staker,
		Contract:  contract,
		Amount:    new(uint256.Int).Set(amount),
		UnstakeAt: unstakeAt,
	}}

	// walk back from the tail, most requests share the same lock time
	prevID, err := l.getUint64(l.tail)
	if err != nil {
		return nil, err
	}
	var prev *node
	for prevID != 0 {
		if prev, err = l.node(prevID); err != nil {
			return nil, err
		}
		if prev.Request.UnstakeAt <= unstakeAt {
			break
		}
		prevID = prev.Prev
		prev = nil
	}

	if prev == nil {
		head, err := l.getUint64(l.head)
		if err != nil {
			return nil, err
		}
		n.Next = head
		l.setUint64(l.head, id)
	} else {
		n.Prev = prev.Request.ID
		n.Next = prev.Next
		prev.Next = id
		if err := l.setNode(prev); err != nil {
			return nil, err
		}
	}

	if n.Next == 0 {
		l.setUint64(l.tail, id)
	} else {
		next, err := l.node(n.Next)
		if err != nil {
			return nil, err
		}
		next.Prev = id
		if err := l.setNode(next); err != nil {
			return nil, err
		}
	}
	if err := l.setNode(n); err != nil {
		return nil, err
	}
	if err := l.count.Add(uint256.NewInt(1)); err != nil {
		return nil, err
	}
	return &n.Request, nil
}

// First returns the earliest maturing request, or nil when the list is empty.
func (l *List) First() (*Request, error) {
	head, err := l.getUint64(l.head)
	if err != nil || head == 0 {
		return nil, err
	}
	n, err := l.node(head)
	if err != nil {
		return nil, err
	}
	return &n.Request, nil
}

// Pop removes and returns the earliest maturing request, or nil when the list is empty.
func (l *List) Pop() (*Request, error) {
	head, err := l.getUint64(l.head)
	if err != nil || head == 0 {
		return nil, err
	}
	n, err := l.node(head)
	if err != nil {
		return nil, err
	}
	l.setUint64(l.head, n.Next)
	if n.Next == 0 {
		l.setUint64(l.tail, 0)
	} else {
		next, err := l.node(n.Next)
		if err != nil {
			return nil, err
		}
		next.Prev = 0
		if err := l.setNode(next); err != nil {
			return nil, err
		}
	}
	l.nodes.Delete(pstake.Uint64ToBytes32(head))
	if err := l.count.Sub(uint256.NewInt(1)); err != nil {
		return nil, err
	}
	return &n.Request, nil
}

// Len returns the number of queued requests.
func (l *List) Len() (uint64, error) {
	return l.getUint64(l.count)
}

// Iter walks requests in maturity order until cb returns false or an error.
func (l *List) Iter(cb func(*Request) (bool, error)) error {
	id, err := l.getUint64(l.head)
	if err != nil {
		return err
	}
	for id != 0 {
		n, err := l.node(id)
		if err != nil {
			return err
		}
		more, err := cb(&n.Request)
		if err != nil || !more {
			return err
		}
		id = n.Next
	}
	return nil
}

// List returns up to limit requests after skipping offset, in maturity order.
func (l *List) List(offset, limit uint64) ([]*Request, error) {
	list := make([]*Request, 0)
	if limit == 0 {
		return list, nil
	}
	var i uint64
	err := l.Iter(func(r *Request) (bool, error) {
		if i >= offset {
			list = append(list, r)
		}
		i++
		return uint64(len(list)) < limit, nil
	})
	return list, err
}
