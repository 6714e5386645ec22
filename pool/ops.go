// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/pstake"
)

func (p *Pool) DepositAndStake(caller pstake.Address, amount *uint256.Int, contracts []pstake.Address, stakes []*uint256.Int) (*Receipt, error) {
	return p.Execute("depositAndStake", func(ctx *Context) error {
		return ctx.Staker.DepositAndStake(caller, amount, contracts, stakes)
	})
}

func (p *Pool) WithdrawDeposit(caller pstake.Address, amount *uint256.Int) (*Receipt, error) {
	return p.Execute("withdrawDeposit", func(ctx *Context) error {
		return ctx.Staker.WithdrawDeposit(caller, amount)
	})
}

// RequestUnstake records unstake requests maturing after the configured lock time.
func (p *Pool) RequestUnstake(caller pstake.Address, contracts []pstake.Address, amounts []*uint256.Int) ([]*unstakes.Request, *Receipt, error) {
	var requests []*unstakes.Request
	receipt, err := p.Execute("requestUnstake", func(ctx *Context) (err error) {
		requests, err = ctx.Staker.RequestUnstake(caller, contracts, amounts, ctx.Now)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	return requests, receipt, nil
}

func (p *Pool) PushBurn(caller, contract pstake.Address, amount *uint256.Int) (*actions.Action, *Receipt, error) {
	return p.push("pushBurn", func(ctx *Context) (*actions.Action, error) {
		return ctx.Staker.PushBurn(caller, contract, amount, ctx.Now)
	})
}

func (p *Pool) PushReward(caller, contract pstake.Address, amount *uint256.Int) (*actions.Action, *Receipt, error) {
	return p.push("pushReward", func(ctx *Context) (*actions.Action, error) {
		return ctx.Staker.PushReward(caller, contract, amount, ctx.Now)
	})
}

func (p *Pool) push(op string, fn func(ctx *Context) (*actions.Action, error)) (*actions.Action, *Receipt, error) {
	var action *actions.Action
	receipt, err := p.Execute(op, func(ctx *Context) (err error) {
		if action, err = fn(ctx); err != nil {
			return err
		}
		return p.reportPending(ctx)
	})
	if err != nil {
		return nil, nil, err
	}
	return action, receipt, nil
}

// ProcessPendingActions settles the action queue and every matured unstake request.
func (p *Pool) ProcessPendingActions() (*staker.Settlement, *Receipt, error) {
	var settlement *staker.Settlement
	start := time.Now()
	receipt, err := p.Execute("processPendingActions", func(ctx *Context) (err error) {
		if settlement, err = ctx.Staker.ProcessPendingActions(ctx.Now); err != nil {
			return err
		}
		return p.reportPending(ctx)
	})
	if err != nil {
		logger.Warn("settlement reverted", "err", err)
		return nil, nil, err
	}

	if settlement.Processed() > 0 {
		metricSettlementDuration().Observe(time.Since(start).Milliseconds())
		for kind, n := range map[string]int{"burn": settlement.Burns, "reward": settlement.Rewards, "unstake": settlement.Unstakes} {
			metricSettlementBatchSize().ObserveWithLabels(int64(n), map[string]string{"kind": kind})
		}
		logger.Info("settled",
			"burns", settlement.Burns,
			"rewards", settlement.Rewards,
			"unstakes", settlement.Unstakes,
			"burned", settlement.Burned,
			"minted", settlement.Minted,
			"elapsed", time.Since(start),
		)
	}
	return settlement, receipt, nil
}

func (p *Pool) reportPending(ctx *Context) error {
	n, err := ctx.Staker.PendingActionsLen()
	if err != nil {
		return err
	}
	metricPendingActions().Set(int64(n))
	return nil
}

func (p *Pool) WithdrawReward(caller pstake.Address, amount *uint256.Int) (*Receipt, error) {
	return p.Execute("withdrawReward", func(ctx *Context) error {
		return ctx.Staker.WithdrawReward(caller, amount)
	})
}

func (p *Pool) UpdateParameter(caller pstake.Address, key params.Key, value *uint256.Int) (*Receipt, error) {
	return p.Execute("updateParameter", func(ctx *Context) error {
		return ctx.Staker.UpdateParameter(caller, key, value)
	})
}

// Approve sets the amount of owner's tokens the staker may pull on deposit.
func (p *Pool) Approve(owner pstake.Address, amount *uint256.Int) (*Receipt, error) {
	return p.Execute("approve", func(ctx *Context) error {
		return ctx.Token.Approve(owner, ctx.Staker.Address(), amount)
	})
}
