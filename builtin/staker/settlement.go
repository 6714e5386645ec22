// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/pstake"
)

// Settlement summarizes one ProcessPendingActions call.
type Settlement struct {
	Burns    int
	Rewards  int
	Unstakes int
	Burned   *uint256.Int // tokens burned from custody
	Minted   *uint256.Int // tokens minted into custody
}

// Processed returns the number of settled items.
func (s *Settlement) Processed() int {
	return s.Burns + s.Rewards + s.Unstakes
}

func (s *Staker) push(kind actions.Kind, caller, contract pstake.Address, amount *uint256.Int, now uint64) (*actions.Action, error) {
	if err := access.Require(s.checker, access.Internal, caller); err != nil {
		return nil, err
	}
	if amount == nil || amount.IsZero() {
		return nil, reverts.New(reverts.ZeroAmount, "%v amount", kind)
	}
	if contract.IsZero() {
		return nil, reverts.New(reverts.InvalidArgument, "zero contract address")
	}

	var action *actions.Action
	err := s.atomic(func() error {
		var err error
		if action, err = s.actions.Push(kind, contract, amount, now); err != nil {
			return err
		}
		ev := &Event{Kind: BurnRequested, Contract: contract, Amount: amount, Extra: uint256.NewInt(action.ID), ActionID: action.ID}
		if kind == actions.Reward {
			ev.Kind = RewardRequested
		}
		s.emit(ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("action queued", "kind", kind, "id", action.ID, "contract", contract, "amount", amount)
	return action, nil
}

// PushBurn queues a burn of amount against the stakers of contract. No balance changes
// until the queue is processed.
func (s *Staker) PushBurn(caller, contract pstake.Address, amount *uint256.Int, now uint64) (*actions.Action, error) {
	return s.push(actions.Burn, caller, contract, amount, now)
}

// PushReward queues a reward of amount for the stakers of contract. No balance changes
// until the queue is processed.
func (s *Staker) PushReward(caller, contract pstake.Address, amount *uint256.Int, now uint64) (*actions.Action, error) {
	return s.push(actions.Reward, caller, contract, amount, now)
}

// ProcessPendingActions settles every queued action in push order, interleaving unstake
// requests matured at now by their maturity time. Either everything settles or nothing does.
func (s *Staker) ProcessPendingActions(now uint64) (*Settlement, error) {
	result := &Settlement{Burned: new(uint256.Int), Minted: new(uint256.Int)}
	err := s.atomic(func() error {
		return s.settle(now, result)
	})
	if err != nil {
		return nil, reverts.Wrap(reverts.ProcessingFailed, err, "settlement reverted")
	}
	if result.Processed() > 0 {
		logger.Debug("settled pending actions",
			"burns", result.Burns,
			"rewards", result.Rewards,
			"unstakes", result.Unstakes,
			"burned", result.Burned,
			"minted", result.Minted,
		)
	}
	return result, nil
}

func (s *Staker) settle(now uint64, result *Settlement) error {
	for {
		head, err := s.actions.Peek()
		if err != nil {
			return err
		}
		req, err := s.unstakes.First()
		if err != nil {
			return err
		}

		// burns and rewards pushed at the same time as a maturity go first
		if req != nil && req.UnstakeAt <= now && (head == nil || req.UnstakeAt < head.PushedAt) {
			if _, err := s.unstakes.Pop(); err != nil {
				return err
			}
			if err := s.unstake(req); err != nil {
				return errors.WithMessagef(err, "unstake request %d", req.ID)
			}
			result.Unstakes++
			continue
		}
		if head == nil {
			return nil
		}

		action, err := s.actions.Pop()
		if err != nil {
			return err
		}
		switch action.Kind {
		case actions.Burn:
			burned, err := s.burn(action)
			if err != nil {
				return errors.WithMessagef(err, "burn %d", action.ID)
			}
			result.Burned.Add(result.Burned, burned)
			result.Burns++
		case actions.Reward:
			minted, err := s.reward(action)
			if err != nil {
				return errors.WithMessagef(err, "reward %d", action.ID)
			}
			result.Minted.Add(result.Minted, minted)
			result.Rewards++
		default:
			return errors.Errorf("action %d has unknown kind %d", action.ID, action.Kind)
		}
	}
}

// burn removes a share of min(amount, total stake) from every staker of the contract,
// proportional to stake, from both stake and deposit.
func (s *Staker) burn(action *actions.Action) (*uint256.Int, error) {
	weights, total, err := s.stakes.ContractWeights(action.Contract)
	if err != nil {
		return nil, err
	}
	burned := new(uint256.Int)
	if total.IsZero() {
		logger.Debug("burn on contract without stake", "contract", action.Contract, "amount", action.Amount)
		s.emit(&Event{Kind: Burned, Contract: action.Contract, Amount: action.Amount, Extra: burned, ActionID: action.ID})
		return burned, nil
	}

	amount := action.Amount
	if total.Lt(amount) {
		amount = total
	}
	for _, w := range weights {
		if w.Stake.IsZero() {
			continue
		}
		share, overflow := new(uint256.Int).MulDivOverflow(amount, w.Stake, total)
		if overflow {
			return nil, reverts.New(reverts.ArithmeticOverflow, "burn share of %v", w.Staker)
		}
		if share.IsZero() {
			continue
		}
		if err := s.slash(w.Staker, action.Contract, share); err != nil {
			return nil, err
		}
		burned.Add(burned, share)
	}

	if err := s.token.Burn(s.addr, burned); err != nil {
		return nil, err
	}
	s.emit(&Event{Kind: Burned, Contract: action.Contract, Amount: action.Amount, Extra: burned, ActionID: action.ID})
	return burned, nil
}

// slash takes share from the staker's stake on contract and from its deposit, then caps
// every other stake of the staker at the reduced deposit.
func (s *Staker) slash(staker, contract pstake.Address, share *uint256.Int) error {
	alloc, err := s.stakes.GetAllocation(staker, contract)
	if err != nil {
		return err
	}
	if _, underflow := alloc.Stake.SubOverflow(alloc.Stake, share); underflow {
		return reverts.New(reverts.ArithmeticOverflow, "stake of %v on %v", staker, contract)
	}
	if err := s.stakes.SetAllocation(staker, contract, alloc); err != nil {
		return err
	}

	rec, err := s.stakes.GetStaker(staker)
	if err != nil {
		return err
	}
	if _, underflow := rec.Deposit.SubOverflow(rec.Deposit, share); underflow {
		return reverts.New(reverts.ArithmeticOverflow, "deposit of %v", staker)
	}
	if err := s.stakes.SetStaker(staker, rec); err != nil {
		return err
	}

	contracts, err := s.stakes.StakerContracts(staker)
	if err != nil {
		return err
	}
	for _, other := range contracts {
		if other == contract {
			continue
		}
		alloc, err := s.stakes.GetAllocation(staker, other)
		if err != nil {
			return err
		}
		if !rec.Deposit.Lt(alloc.Stake) {
			continue
		}
		alloc.Stake = new(uint256.Int).Set(rec.Deposit)
		if err := s.stakes.SetAllocation(staker, other, alloc); err != nil {
			return err
		}
	}
	return nil
}

// reward credits every staker of the contract a share of amount proportional to stake and
// mints amount into custody. Nothing happens when the contract has no stake.
func (s *Staker) reward(action *actions.Action) (*uint256.Int, error) {
	weights, total, err := s.stakes.ContractWeights(action.Contract)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		logger.Debug("reward on contract without stake", "contract", action.Contract, "amount", action.Amount)
		return new(uint256.Int), nil
	}

	for _, w := range weights {
		if w.Stake.IsZero() {
			continue
		}
		share, overflow := new(uint256.Int).MulDivOverflow(action.Amount, w.Stake, total)
		if overflow {
			return nil, reverts.New(reverts.ArithmeticOverflow, "reward share of %v", w.Staker)
		}
		if share.IsZero() {
			continue
		}
		rec, err := s.stakes.GetStaker(w.Staker)
		if err != nil {
			return nil, err
		}
		if _, overflow := rec.Reward.AddOverflow(rec.Reward, share); overflow {
			return nil, reverts.New(reverts.ArithmeticOverflow, "reward of %v", w.Staker)
		}
		if err := s.stakes.SetStaker(w.Staker, rec); err != nil {
			return nil, err
		}
	}

	if err := s.token.Mint(s.addr, action.Amount); err != nil {
		return nil, err
	}
	s.emit(&Event{Kind: Rewarded, Contract: action.Contract, Amount: action.Amount, ActionID: action.ID})
	return new(uint256.Int).Set(action.Amount), nil
}

// unstake releases min(requested, stake) of a matured request.
func (s *Staker) unstake(req *unstakes.Request) error {
	alloc, err := s.stakes.GetAllocation(req.Staker, req.Contract)
	if err != nil {
		return err
	}
	actual := new(uint256.Int).Set(req.Amount)
	if alloc.Stake.Lt(actual) {
		actual.Set(alloc.Stake)
	}
	alloc.Stake.Sub(alloc.Stake, actual)
	if alloc.PendingUnstake.Lt(req.Amount) {
		alloc.PendingUnstake.Clear()
	} else {
		alloc.PendingUnstake.Sub(alloc.PendingUnstake, req.Amount)
	}
	if err := s.stakes.SetAllocation(req.Staker, req.Contract, alloc); err != nil {
		return err
	}
	s.emit(&Event{Kind: Unstaked, Contract: req.Contract, Staker: req.Staker, Amount: req.Amount, Extra: actual, ActionID: req.ID})
	return nil
}
