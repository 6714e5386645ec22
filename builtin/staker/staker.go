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
	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/staker/stakes"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/log"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// TokenLedger is the fungible token the staker keeps custody of.
type TokenLedger interface {
	BalanceOf(addr pstake.Address) (*uint256.Int, error)
	Mint(to pstake.Address, amount *uint256.Int) error
	Burn(from pstake.Address, amount *uint256.Int) error
	Transfer(from, to pstake.Address, amount *uint256.Int) error
	TransferFrom(spender, owner, to pstake.Address, amount *uint256.Int) error
}

// Staker implements the pooled staking contract. Tokens of all members are held by the
// staker address.
type Staker struct {
	addr    pstake.Address
	state   *state.State
	params  *params.Params
	token   TokenLedger
	checker access.Checker

	stakes   *stakes.Service
	actions  *actions.Queue
	unstakes *unstakes.List

	events []*Event
}

// New create a new instance.
func New(addr pstake.Address, state *state.State, params *params.Params, token TokenLedger, checker access.Checker) *Staker {
	sctx := solidity.NewContext(addr, state)
	return &Staker{
		addr:     addr,
		state:    state,
		params:   params,
		token:    token,
		checker:  checker,
		stakes:   stakes.New(sctx),
		actions:  actions.New(sctx),
		unstakes: unstakes.New(sctx),
	}
}

// Address returns the custody address.
func (s *Staker) Address() pstake.Address {
	return s.addr
}

// atomic runs fn in a state checkpoint, discarding its state changes and events on error.
func (s *Staker) atomic(fn func() error) error {
	chk := s.state.NewCheckpoint()
	n := len(s.events)
	if err := fn(); err != nil {
		s.state.RevertTo(chk)
		s.events = s.events[:n]
		return err
	}
	return nil
}

func (s *Staker) param(key params.Key) (*uint256.Int, error) {
	return s.params.Get(key)
}

// blocked returns UnprocessedActionsPending if any queued action targets one of contracts.
func (s *Staker) blocked(contracts []pstake.Address) error {
	for _, contract := range contracts {
		has, err := s.actions.HasPendingFor(contract)
		if err != nil {
			return err
		}
		if has {
			return reverts.New(reverts.UnprocessedActionsPending, "contract %v has queued actions", contract)
		}
	}
	return nil
}

//
// Getters - no state change
//

// StakerDeposit returns the deposit of staker.
func (s *Staker) StakerDeposit(staker pstake.Address) (*uint256.Int, error) {
	rec, err := s.stakes.GetStaker(staker)
	if err != nil {
		return nil, err
	}
	return rec.Deposit, nil
}

// StakerReward returns the unclaimed reward of staker.
func (s *Staker) StakerReward(staker pstake.Address) (*uint256.Int, error) {
	rec, err := s.stakes.GetStaker(staker)
	if err != nil {
		return nil, err
	}
	return rec.Reward, nil
}

// StakerContractStake returns the stake staker holds on contract.
func (s *Staker) StakerContractStake(staker, contract pstake.Address) (*uint256.Int, error) {
	alloc, err := s.stakes.GetAllocation(staker, contract)
	if err != nil {
		return nil, err
	}
	return alloc.Stake, nil
}

// StakerPendingUnstake returns the stake of staker on contract claimed by queued unstake requests.
func (s *Staker) StakerPendingUnstake(staker, contract pstake.Address) (*uint256.Int, error) {
	alloc, err := s.stakes.GetAllocation(staker, contract)
	if err != nil {
		return nil, err
	}
	return alloc.PendingUnstake, nil
}

// StakerContractsArray returns the contracts of staker in the order they were first staked.
func (s *Staker) StakerContractsArray(staker pstake.Address) ([]pstake.Address, error) {
	return s.stakes.StakerContracts(staker)
}

// ContractStakers returns the stakers of contract in first-allocation order.
func (s *Staker) ContractStakers(contract pstake.Address) ([]pstake.Address, error) {
	return s.stakes.ContractStakers(contract)
}

// ContractTotalStake returns the summed stake on contract.
func (s *Staker) ContractTotalStake(contract pstake.Address) (*uint256.Int, error) {
	return s.stakes.ContractTotalStake(contract)
}

// PendingActions lists queued burn and reward actions, oldest first.
func (s *Staker) PendingActions(offset, limit uint64) ([]*actions.Action, error) {
	return s.actions.List(offset, limit)
}

// PendingActionsLen returns the number of queued actions.
func (s *Staker) PendingActionsLen() (uint64, error) {
	return s.actions.Len()
}

// HasPendingActions reports whether any queued action targets contract.
func (s *Staker) HasPendingActions(contract pstake.Address) (bool, error) {
	return s.actions.HasPendingFor(contract)
}

// UnstakeRequests lists queued unstake requests in maturity order.
func (s *Staker) UnstakeRequests(offset, limit uint64) ([]*unstakes.Request, error) {
	return s.unstakes.List(offset, limit)
}

// UnstakeRequestsLen returns the number of queued unstake requests.
func (s *Staker) UnstakeRequestsLen() (uint64, error) {
	return s.unstakes.Len()
}

// Custody returns the token balance held by the staker.
func (s *Staker) Custody() (*uint256.Int, error) {
	return s.token.BalanceOf(s.addr)
}

//
// Governance
//

// UpdateParameter sets a governance parameter. The value takes effect immediately.
func (s *Staker) UpdateParameter(caller pstake.Address, key params.Key, value *uint256.Int) error {
	if err := access.Require(s.checker, access.Governance, caller); err != nil {
		return err
	}
	if !key.Valid() {
		return reverts.New(reverts.UnknownParameter, "%v", key)
	}
	if value == nil {
		return reverts.New(reverts.InvalidArgument, "missing value")
	}
	return s.atomic(func() error {
		if err := s.params.Set(key, value); err != nil {
			return err
		}
		logger.Info("parameter updated", "key", key, "value", value, "by", caller)
		s.emit(&Event{
			Kind:   ParameterUpdated,
			Staker: caller,
			Amount: value,
			Extra:  uint256.NewInt(uint64(key)),
		})
		return nil
	})
}
