// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package actions implements the FIFO queue of burn and reward actions.
package actions

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/pstake"
)

var (
	slotHead    = pstake.BytesToBytes32([]byte("actions-head"))
	slotTail    = pstake.BytesToBytes32([]byte("actions-tail"))
	slotItems   = pstake.BytesToBytes32([]byte("actions"))
	slotPending = pstake.BytesToBytes32([]byte("actions-pending"))
)

// Queue holds actions with ids in [head, tail). Ids start at 1 and are never reused.
type Queue struct {
	head    *solidity.Uint256
	tail    *solidity.Uint256
	items   *solidity.Mapping[pstake.Bytes32, Action]
	pending *solidity.Mapping[pstake.Address, uint64]
}

func New(sctx *solidity.Context) *Queue {
	return &Queue{
		head:    solidity.NewUint256(sctx, slotHead),
		tail:    solidity.NewUint256(sctx, slotTail),
		items:   solidity.NewMapping[pstake.Bytes32, Action](sctx, slotItems),
		pending: solidity.NewMapping[pstake.Address, uint64](sctx, slotPending),
	}
}

func (q *Queue) bounds() (head, tail uint64, err error) {
	h, err := q.head.Get()
	if err != nil {
		return 0, 0, err
	}
	t, err := q.tail.Get()
	if err != nil {
		return 0, 0, err
	}
	head, tail = h.Uint64(), t.Uint64()
	if head == 0 {
		head, tail = 1, 1
	}
	return head, tail, nil
}

func (q *Queue) get(id uint64) (*Action, error) {
	a, err := q.items.Get(pstake.Uint64ToBytes32(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get action")
	}
	if a.IsEmpty() {
		return nil, errors.Errorf("action %d missing", id)
	}
	return &a, nil
}

// Push appends an action and returns it with its assigned id.
func (q *Queue) Push(kind Kind, contract pstake.Address, amount *uint256.Int, now uint64) (*Action, error) {
	head, tail, err := q.bounds()
	if err != nil {
		return nil, err
	}
	action := &Action{
		ID:       tail,
		Kind:     kind,
		Contract: contract,
		Amount:   new(uint256.Int).Set(amount),
		PushedAt: now,
	}
	if err := q.items.Set(pstake.Uint64ToBytes32(tail), *action); err != nil {
		return nil, errors.Wrap(err, "failed to set action")
	}
	count, err := q.pending.Get(contract)
	if err != nil {
		return nil, err
	}
	if err := q.pending.Set(contract, count+1); err != nil {
		return nil, err
	}
	q.head.Set(uint256.NewInt(head))
	q.tail.Set(uint256.NewInt(tail + 1))
	return action, nil
}

// Len returns the number of queued actions.
func (q *Queue) Len() (uint64, error) {
	head, tail, err := q.bounds()
	if err != nil {
		return 0, err
	}
	return tail - head, nil
}

// Peek returns the oldest action, or nil when the queue is empty.
func (q *Queue) Peek() (*Action, error) {
	head, tail, err := q.bounds()
	if err != nil {
		return nil, err
	}
	if head == tail {
		return nil, nil
	}
	return q.get(head)
}

// Pop removes and returns the oldest action, or nil when the queue is empty.
func (q *Queue) Pop() (*Action, error) {
	head, tail, err := q.bounds()
	if err != nil {
		return nil, err
	}
	if head == tail {
		return nil, nil
	}
	action, err := q.get(head)
	if err != nil {
		return nil, err
	}
	q.items.Delete(pstake.Uint64ToBytes32(head))

	count, err := q.pending.Get(action.Contract)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Errorf("pending count of %v underflow", action.Contract)
	}
	if err := q.pending.Set(action.Contract, count-1); err != nil {
		return nil, err
	}
	q.head.Set(uint256.NewInt(head + 1))
	return action, nil
}

// List returns up to limit queued actions after skipping offset, oldest first.
func (q *Queue) List(offset, limit uint64) ([]*Action, error) {
	head, tail, err := q.bounds()
	if err != nil {
		return nil, err
	}
	list := make([]*Action, 0)
	if offset >= tail-head {
		return list, nil
	}
	for id := head + offset; id < tail && uint64(len(list)) < limit; id++ {
		action, err := q.get(id)
		if err != nil {
			return nil, err
		}
		list = append(list, action)
	}
	return list, nil
}

// PendingFor returns how many queued actions target contract.
func (q *Queue) PendingFor(contract pstake.Address) (uint64, error) {
	return q.pending.Get(contract)
}

// HasPendingFor reports whether any queued action targets contract.
func (q *Queue) HasPendingFor(contract pstake.Address) (bool, error) {
	n, err := q.PendingFor(contract)
	return n > 0, err
}
