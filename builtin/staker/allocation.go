// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/pstake"
)

// exposureLimit returns deposit * MaxExposure, or nil when the product does not fit.
func (s *Staker) exposureLimit(deposit *uint256.Int) (*uint256.Int, error) {
	maxExposure, err := s.param(params.MaxExposure)
	if err != nil {
		return nil, err
	}
	limit, overflow := new(uint256.Int).MulOverflow(deposit, maxExposure)
	if overflow {
		return nil, nil
	}
	return limit, nil
}

func checkContracts(existing, contracts []pstake.Address) error {
	if len(contracts) < len(existing) {
		return reverts.New(reverts.UnexpectedContractOrder, "expected at least %d contracts, got %d", len(existing), len(contracts))
	}
	for i, contract := range existing {
		if contracts[i] != contract {
			return reverts.New(reverts.UnexpectedContractOrder, "contract %d is %v, expected %v", i, contracts[i], contract)
		}
	}
	seen := make(map[pstake.Address]struct{}, len(contracts))
	for _, contract := range contracts {
		if contract.IsZero() {
			return reverts.New(reverts.InvalidArgument, "zero contract address")
		}
		if _, dup := seen[contract]; dup {
			return reverts.New(reverts.InvalidArgument, "duplicate contract %v", contract)
		}
		seen[contract] = struct{}{}
	}
	return nil
}

// DepositAndStake adds amount to the caller's deposit and raises its stake on each contract
// to the given value. contracts must start with every contract the caller already stakes
// on, in the same order.
func (s *Staker) DepositAndStake(caller pstake.Address, amount *uint256.Int, contracts []pstake.Address, newStakes []*uint256.Int) error {
	if err := access.Require(s.checker, access.Member, caller); err != nil {
		return err
	}
	if amount == nil {
		amount = new(uint256.Int)
	}
	if len(contracts) != len(newStakes) {
		return reverts.New(reverts.InvalidArgument, "%d contracts but %d stakes", len(contracts), len(newStakes))
	}
	if amount.IsZero() && len(contracts) == 0 {
		return reverts.New(reverts.InvalidArgument, "nothing to deposit or stake")
	}

	existing, err := s.stakes.StakerContracts(caller)
	if err != nil {
		return err
	}
	if err := checkContracts(existing, contracts); err != nil {
		return err
	}
	if err := s.blocked(contracts); err != nil {
		return err
	}

	minStake, err := s.param(params.MinStake)
	if err != nil {
		return err
	}

	return s.atomic(func() error {
		rec, err := s.stakes.GetStaker(caller)
		if err != nil {
			return err
		}
		if !amount.IsZero() {
			if err := s.token.TransferFrom(s.addr, caller, s.addr, amount); err != nil {
				return err
			}
			if _, overflow := rec.Deposit.AddOverflow(rec.Deposit, amount); overflow {
				return reverts.New(reverts.ArithmeticOverflow, "deposit of %v", caller)
			}
			if err := s.stakes.SetStaker(caller, rec); err != nil {
				return err
			}
			s.emit(&Event{Kind: Deposited, Staker: caller, Amount: amount, Extra: rec.Deposit})
		}

		total := new(uint256.Int)
		for i, contract := range contracts {
			stake := newStakes[i]
			if stake == nil {
				return reverts.New(reverts.InvalidArgument, "missing stake for %v", contract)
			}
			if _, overflow := total.AddOverflow(total, stake); overflow {
				return reverts.New(reverts.ArithmeticOverflow, "total stake of %v", caller)
			}

			alloc, err := s.stakes.GetAllocation(caller, contract)
			if err != nil {
				return err
			}
			if stake.Lt(alloc.Stake) {
				return reverts.New(reverts.StakeDecrease, "stake on %v would drop from %v to %v", contract, alloc.Stake, stake)
			}
			if stake.Eq(alloc.Stake) {
				continue
			}
			if stake.Lt(minStake) {
				return reverts.New(reverts.MinStakeNotMet, "stake %v on %v below minimum %v", stake, contract, minStake)
			}
			if rec.Deposit.Lt(stake) {
				return reverts.New(reverts.StakeExceedsDeposit, "stake %v on %v exceeds deposit %v", stake, contract, rec.Deposit)
			}

			delta := new(uint256.Int).Sub(stake, alloc.Stake)
			alloc.Stake = new(uint256.Int).Set(stake)
			if err := s.stakes.SetAllocation(caller, contract, alloc); err != nil {
				return err
			}
			s.emit(&Event{Kind: Staked, Contract: contract, Staker: caller, Amount: stake, Extra: delta})
		}

		limit, err := s.exposureLimit(rec.Deposit)
		if err != nil {
			return err
		}
		if limit != nil && limit.Lt(total) {
			return reverts.New(reverts.ExposureExceeded, "total stake %v exceeds %v", total, limit)
		}
		return nil
	})
}

// WithdrawDeposit returns amount of the caller's deposit. The remaining deposit must still
// cover every stake and the exposure limit.
func (s *Staker) WithdrawDeposit(caller pstake.Address, amount *uint256.Int) error {
	if err := access.Require(s.checker, access.Member, caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.ZeroAmount, "withdraw amount")
	}
	contracts, err := s.stakes.StakerContracts(caller)
	if err != nil {
		return err
	}
	if err := s.blocked(contracts); err != nil {
		return err
	}

	return s.atomic(func() error {
		rec, err := s.stakes.GetStaker(caller)
		if err != nil {
			return err
		}
		if rec.Deposit.Lt(amount) {
			return reverts.New(reverts.InsufficientDeposit, "deposit %v below %v", rec.Deposit, amount)
		}
		remaining := new(uint256.Int).Sub(rec.Deposit, amount)

		total, largest, err := s.stakes.StakeTotals(caller)
		if err != nil {
			return err
		}
		maxExposure, err := s.param(params.MaxExposure)
		if err != nil {
			return err
		}
		divisor := maxExposure
		if divisor.IsZero() {
			divisor = uint256.NewInt(1)
		}
		// ceil(total / MaxExposure)
		required, rem := new(uint256.Int).DivMod(total, divisor, new(uint256.Int))
		if !rem.IsZero() {
			required.AddUint64(required, 1)
		}
		if required.Lt(largest) {
			required = largest
		}
		if remaining.Lt(required) {
			return reverts.New(reverts.InsufficientDeposit, "remaining deposit %v below required %v", remaining, required)
		}

		rec.Deposit = remaining
		if err := s.stakes.SetStaker(caller, rec); err != nil {
			return err
		}
		if err := s.token.Transfer(s.addr, caller, amount); err != nil {
			return err
		}
		s.emit(&Event{Kind: Withdrawn, Staker: caller, Amount: amount, Extra: remaining})
		return nil
	})
}

// RequestUnstake queues the release of stake on each contract. Requests mature after the
// UnstakeLockTime parameter and are settled by ProcessPendingActions.
func (s *Staker) RequestUnstake(caller pstake.Address, contracts []pstake.Address, amounts []*uint256.Int, now uint64) ([]*unstakes.Request, error) {
	if err := access.Require(s.checker, access.Member, caller); err != nil {
		return nil, err
	}
	if len(contracts) == 0 || len(contracts) != len(amounts) {
		return nil, reverts.New(reverts.InvalidArgument, "%d contracts but %d amounts", len(contracts), len(amounts))
	}
	if err := s.blocked(contracts); err != nil {
		return nil, err
	}

	minStake, err := s.param(params.MinStake)
	if err != nil {
		return nil, err
	}
	minUnstake, err := s.param(params.MinUnstake)
	if err != nil {
		return nil, err
	}
	lockTime, err := s.param(params.UnstakeLockTime)
	if err != nil {
		return nil, err
	}
	if !lockTime.IsUint64() {
		return nil, reverts.New(reverts.ArithmeticOverflow, "unstake lock time %v", lockTime)
	}
	unstakeAt := now + lockTime.Uint64()
	if unstakeAt < now {
		return nil, reverts.New(reverts.ArithmeticOverflow, "unstake time %d + %v", now, lockTime)
	}

	var requests []*unstakes.Request
	err = s.atomic(func() error {
		for i, contract := range contracts {
			amount := amounts[i]
			if amount == nil || amount.IsZero() {
				return reverts.New(reverts.ZeroAmount, "unstake amount on %v", contract)
			}
			alloc, err := s.stakes.GetAllocation(caller, contract)
			if err != nil {
				return err
			}
			available := alloc.Available()
			if available.Lt(amount) {
				return reverts.New(reverts.UnstakeExceedsStake, "unstake %v on %v exceeds available %v", amount, contract, available)
			}
			remaining := new(uint256.Int).Sub(available, amount)
			if !remaining.IsZero() {
				if amount.Lt(minUnstake) {
					return reverts.New(reverts.InvalidArgument, "unstake %v on %v below minimum %v", amount, contract, minUnstake)
				}
				if remaining.Lt(minStake) {
					return reverts.New(reverts.MinStakeNotMet, "remaining stake %v on %v below minimum %v", remaining, contract, minStake)
				}
			}

			alloc.PendingUnstake = new(uint256.Int).Add(alloc.PendingUnstake, amount)
			if err := s.stakes.SetAllocation(caller, contract, alloc); err != nil {
				return err
			}
			req, err := s.unstakes.Insert(caller, contract, amount, unstakeAt)
			if err != nil {
				return err
			}
			requests = append(requests, req)
			s.emit(&Event{
				Kind:     UnstakeRequested,
				Contract: contract,
				Staker:   caller,
				Amount:   amount,
				Extra:    uint256.NewInt(unstakeAt),
				ActionID: req.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}
