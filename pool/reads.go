// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

// ContractStake is the stake of one staker on one contract.
type ContractStake struct {
	Contract       pstake.Address
	Staker         pstake.Address
	Stake          *uint256.Int
	PendingUnstake *uint256.Int
}

// StakerSummary is the committed position of a staker.
type StakerSummary struct {
	Address   pstake.Address
	Deposit   *uint256.Int
	Reward    *uint256.Int
	Contracts []ContractStake
}

// ContractSummary is the committed stake placed on a contract.
type ContractSummary struct {
	Address    pstake.Address
	TotalStake *uint256.Int
	Pending    bool
	Stakers    []ContractStake
}

// StakerSummary returns the staker position, served from cache until the next commit.
func (p *Pool) StakerSummary(addr pstake.Address) (*StakerSummary, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, err := p.summaries.GetOrLoad(addr, func(any) (any, error) {
		return loadSummary(p.newContext(state.New(p.db)), addr)
	})
	if err != nil {
		return nil, err
	}
	return v.(*StakerSummary), nil
}

func loadSummary(ctx *Context, addr pstake.Address) (*StakerSummary, error) {
	deposit, err := ctx.Staker.StakerDeposit(addr)
	if err != nil {
		return nil, err
	}
	reward, err := ctx.Staker.StakerReward(addr)
	if err != nil {
		return nil, err
	}
	contracts, err := ctx.Staker.StakerContractsArray(addr)
	if err != nil {
		return nil, err
	}
	summary := &StakerSummary{Address: addr, Deposit: deposit, Reward: reward}
	for _, contract := range contracts {
		cs, err := loadStake(ctx, addr, contract)
		if err != nil {
			return nil, err
		}
		summary.Contracts = append(summary.Contracts, *cs)
	}
	return summary, nil
}

func loadStake(ctx *Context, addr, contract pstake.Address) (*ContractStake, error) {
	stake, err := ctx.Staker.StakerContractStake(addr, contract)
	if err != nil {
		return nil, err
	}
	pending, err := ctx.Staker.StakerPendingUnstake(addr, contract)
	if err != nil {
		return nil, err
	}
	return &ContractStake{Contract: contract, Staker: addr, Stake: stake, PendingUnstake: pending}, nil
}

// ContractSummary returns the contract's total stake and its stakers in listing order.
func (p *Pool) ContractSummary(contract pstake.Address) (summary *ContractSummary, err error) {
	err = p.View(func(ctx *Context) error {
		summary = &ContractSummary{Address: contract}
		if summary.TotalStake, err = ctx.Staker.ContractTotalStake(contract); err != nil {
			return err
		}
		if summary.Pending, err = ctx.Staker.HasPendingActions(contract); err != nil {
			return err
		}
		stakers, err := ctx.Staker.ContractStakers(contract)
		if err != nil {
			return err
		}
		for _, addr := range stakers {
			cs, err := loadStake(ctx, addr, contract)
			if err != nil {
				return err
			}
			summary.Stakers = append(summary.Stakers, *cs)
		}
		return nil
	})
	return
}

func (p *Pool) StakerDeposit(addr pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.StakerDeposit(addr)
		return err
	})
	return
}

func (p *Pool) StakerReward(addr pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.StakerReward(addr)
		return err
	})
	return
}

func (p *Pool) StakerContractStake(addr, contract pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.StakerContractStake(addr, contract)
		return err
	})
	return
}

func (p *Pool) StakerContractsArray(addr pstake.Address) (v []pstake.Address, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.StakerContractsArray(addr)
		return err
	})
	return
}

func (p *Pool) ContractStakers(contract pstake.Address) (v []pstake.Address, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.ContractStakers(contract)
		return err
	})
	return
}

func (p *Pool) ContractTotalStake(contract pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.ContractTotalStake(contract)
		return err
	})
	return
}

// PendingActions returns a page of the action queue, oldest first, and the queue length.
func (p *Pool) PendingActions(offset, limit uint64) (list []*actions.Action, total uint64, err error) {
	err = p.View(func(ctx *Context) error {
		if total, err = ctx.Staker.PendingActionsLen(); err != nil {
			return err
		}
		list, err = ctx.Staker.PendingActions(offset, limit)
		return err
	})
	return
}

// UnstakeRequests returns a page of unstake requests in maturity order, and their count.
func (p *Pool) UnstakeRequests(offset, limit uint64) (list []*unstakes.Request, total uint64, err error) {
	err = p.View(func(ctx *Context) error {
		if total, err = ctx.Staker.UnstakeRequestsLen(); err != nil {
			return err
		}
		list, err = ctx.Staker.UnstakeRequests(offset, limit)
		return err
	})
	return
}

func (p *Pool) Parameter(key params.Key) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Params.Get(key)
		return err
	})
	return
}

func (p *Pool) Parameters() (entries []params.Entry, err error) {
	err = p.View(func(ctx *Context) error {
		entries, err = ctx.Params.All()
		return err
	})
	return
}

func (p *Pool) TokenBalance(addr pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Token.BalanceOf(addr)
		return err
	})
	return
}

// Allowance returns the amount of owner's tokens the staker may still pull.
func (p *Pool) Allowance(owner pstake.Address) (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Token.Allowance(owner, ctx.Staker.Address())
		return err
	})
	return
}

// Custody returns the token balance held by the staker.
func (p *Pool) Custody() (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Staker.Custody()
		return err
	})
	return
}

func (p *Pool) TotalSupply() (v *uint256.Int, err error) {
	err = p.View(func(ctx *Context) error {
		v, err = ctx.Token.TotalSupply()
		return err
	})
	return
}
