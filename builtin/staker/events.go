// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/pstake"
)

// EventKind names an emitted staking event.
type EventKind string

const (
	Deposited        EventKind = "Deposited"
	Withdrawn        EventKind = "Withdrawn"
	Staked           EventKind = "Staked"
	UnstakeRequested EventKind = "UnstakeRequested"
	Unstaked         EventKind = "Unstaked"
	BurnRequested    EventKind = "BurnRequested"
	Burned           EventKind = "Burned"
	RewardRequested  EventKind = "RewardRequested"
	Rewarded         EventKind = "Rewarded"
	RewardWithdrawn  EventKind = "RewardWithdrawn"
	ParameterUpdated EventKind = "ParameterUpdated"
)

// EventKinds lists every kind in declaration order.
func EventKinds() []EventKind {
	return []EventKind{
		Deposited, Withdrawn, Staked, UnstakeRequested, Unstaked,
		BurnRequested, Burned, RewardRequested, Rewarded, RewardWithdrawn,
		ParameterUpdated,
	}
}

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	for _, kind := range EventKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// Event is a record of one ledger change. The meaning of Amount and Extra depends on Kind:
//
//	Deposited         amount deposited, new deposit
//	Withdrawn         amount withdrawn, remaining deposit
//	Staked            new stake, stake delta
//	UnstakeRequested  requested amount, maturity time
//	Unstaked          requested amount, amount released
//	BurnRequested     requested amount, action id
//	Burned            requested amount, amount burned
//	RewardRequested   requested amount, action id
//	Rewarded          requested amount
//	RewardWithdrawn   amount withdrawn, remaining reward
//	ParameterUpdated  new value, parameter id
type Event struct {
	Kind     EventKind
	Contract pstake.Address
	Staker   pstake.Address
	Amount   *uint256.Int
	Extra    *uint256.Int
	ActionID uint64
}

func (s *Staker) emit(ev *Event) {
	if ev.Amount == nil {
		ev.Amount = new(uint256.Int)
	} else {
		ev.Amount = new(uint256.Int).Set(ev.Amount)
	}
	if ev.Extra == nil {
		ev.Extra = new(uint256.Int)
	} else {
		ev.Extra = new(uint256.Int).Set(ev.Extra)
	}
	s.events = append(s.events, ev)
}

// Events returns the events emitted by successful operations, oldest first.
func (s *Staker) Events() []*Event {
	return s.events
}
