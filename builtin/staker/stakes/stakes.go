// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"
)

// Staker is the per-member ledger record.
type Staker struct {
	Deposit *uint256.Int
	Reward  *uint256.Int
}

func (s *Staker) normalize() *Staker {
	if s.Deposit == nil {
		s.Deposit = new(uint256.Int)
	}
	if s.Reward == nil {
		s.Reward = new(uint256.Int)
	}
	return s
}

// IsEmpty returns whether the record holds neither deposit nor reward.
func (s *Staker) IsEmpty() bool {
	return (s.Deposit == nil || s.Deposit.IsZero()) && (s.Reward == nil || s.Reward.IsZero())
}

// Allocation is the stake a member committed to one contract.
type Allocation struct {
	Stake          *uint256.Int
	PendingUnstake *uint256.Int // sum of queued unstake requests
	Listed         bool         // appended to both ordered lists
}

func (a *Allocation) normalize() *Allocation {
	if a.Stake == nil {
		a.Stake = new(uint256.Int)
	}
	if a.PendingUnstake == nil {
		a.PendingUnstake = new(uint256.Int)
	}
	return a
}

// Available returns stake not yet claimed by unstake requests.
func (a *Allocation) Available() *uint256.Int {
	avail, underflow := new(uint256.Int).SubOverflow(a.Stake, a.PendingUnstake)
	if underflow {
		return new(uint256.Int)
	}
	return avail
}
