// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/pstake"
)

// Kind tags a queued action.
type Kind uint8

const (
	Burn Kind = iota + 1
	Reward
)

func (k Kind) String() string {
	switch k {
	case Burn:
		return "burn"
	case Reward:
		return "reward"
	}
	return "unknown"
}

// Action is a burn or reward awaiting settlement.
type Action struct {
	ID       uint64
	Kind     Kind
	Contract pstake.Address
	Amount   *uint256.Int
	PushedAt uint64
}

// IsEmpty returns whether the slot held no action.
func (a *Action) IsEmpty() bool {
	return a.ID == 0
}
