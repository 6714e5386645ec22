// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/pstake"
)

// WithdrawReward pays amount of the caller's settled reward out of custody.
func (s *Staker) WithdrawReward(caller pstake.Address, amount *uint256.Int) error {
	if err := access.Require(s.checker, access.Member, caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.ZeroAmount, "reward amount")
	}

	return s.atomic(func() error {
		rec, err := s.stakes.GetStaker(caller)
		if err != nil {
			return err
		}
		if rec.Reward.Lt(amount) {
			return reverts.New(reverts.InsufficientReward, "reward %v below %v", rec.Reward, amount)
		}
		rec.Reward.Sub(rec.Reward, amount)
		if err := s.stakes.SetStaker(caller, rec); err != nil {
			return err
		}
		if err := s.token.Transfer(s.addr, caller, amount); err != nil {
			return err
		}
		s.emit(&Event{Kind: RewardWithdrawn, Staker: caller, Amount: amount, Extra: rec.Reward})
		return nil
	})
}
