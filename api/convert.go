// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/staker/unstakes"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/pool"
	"github.com/pooledstaking/pstake/pstake"
)

func convertStake(cs *pool.ContractStake) *ContractStake {
	return &ContractStake{
		Contract:       cs.Contract,
		Staker:         cs.Staker,
		Stake:          cs.Stake,
		PendingUnstake: cs.PendingUnstake,
	}
}

func ConvertStaker(s *pool.StakerSummary) *Staker {
	out := &Staker{
		Address:   s.Address,
		Deposit:   s.Deposit,
		Reward:    s.Reward,
		Contracts: make([]*ContractStake, 0, len(s.Contracts)),
	}
	for i := range s.Contracts {
		out.Contracts = append(out.Contracts, convertStake(&s.Contracts[i]))
	}
	return out
}

func ConvertContract(c *pool.ContractSummary) *Contract {
	out := &Contract{
		Address:    c.Address,
		TotalStake: c.TotalStake,
		Pending:    c.Pending,
		Stakers:    make([]*ContractStake, 0, len(c.Stakers)),
	}
	for i := range c.Stakers {
		out.Stakers = append(out.Stakers, convertStake(&c.Stakers[i]))
	}
	return out
}

func ConvertAction(a *actions.Action) *Action {
	return &Action{
		ID:       a.ID,
		Kind:     a.Kind.String(),
		Contract: a.Contract,
		Amount:   a.Amount,
		PushedAt: a.PushedAt,
	}
}

func ConvertUnstakeRequest(r *unstakes.Request) *UnstakeRequest {
	return &UnstakeRequest{
		ID:        r.ID,
		Staker:    r.Staker,
		Contract:  r.Contract,
		Amount:    r.Amount,
		UnstakeAt: r.UnstakeAt,
	}
}

func ConvertParam(e params.Entry) *Param {
	return &Param{
		Name:      e.Key.String(),
		ID:        uint8(e.Key),
		Value:     e.Value,
		IsDefault: e.IsDefault,
	}
}

func optAddress(addr pstake.Address) *pstake.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func ConvertEvent(e *logdb.Event) *Event {
	return &Event{
		Seq:      e.Seq,
		Time:     e.Time,
		Kind:     e.Kind,
		Contract: optAddress(e.Contract),
		Staker:   optAddress(e.Staker),
		Amount:   e.Amount,
		Extra:    e.Extra,
		ActionID: e.ActionID,
	}
}

func ConvertReceipt(r *pool.Receipt) *Receipt {
	out := &Receipt{
		Time:      r.Time,
		StateHash: r.StateHash,
		Changes:   r.Changes,
		Events:    make([]*Event, 0, len(r.Events)),
	}
	for _, e := range r.Events {
		out.Events = append(out.Events, ConvertEvent(e))
	}
	return out
}

func ConvertSettlement(s *staker.Settlement, r *pool.Receipt) *Settlement {
	return &Settlement{
		Burns:    s.Burns,
		Rewards:  s.Rewards,
		Unstakes: s.Unstakes,
		Burned:   s.Burned,
		Minted:   s.Minted,
		Receipt:  ConvertReceipt(r),
	}
}

// Convert validates the filter and converts it for the event log.
func (f *EventFilter) Convert() (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		Contract: f.Contract,
		Staker:   f.Staker,
	}
	for _, kind := range f.Kinds {
		if !staker.EventKind(kind).Valid() {
			return nil, fmt.Errorf("unknown event kind %q", kind)
		}
		filter.Kinds = append(filter.Kinds, kind)
	}

	switch f.Order {
	case "", string(logdb.ASC):
		filter.Order = logdb.ASC
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, fmt.Errorf("order must be %q or %q", logdb.ASC, logdb.DESC)
	}

	if f.Range != nil {
		r := &logdb.Range{To: ^uint64(0)}
		switch f.Range.Unit {
		case "", string(logdb.Seq):
			r.Unit = logdb.Seq
		case string(logdb.Time):
			r.Unit = logdb.Time
		default:
			return nil, fmt.Errorf("range unit must be %q or %q", logdb.Seq, logdb.Time)
		}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		}
		if r.From > r.To {
			return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
		}
		filter.Range = r
	}

	if f.Options != nil {
		filter.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return filter, nil
}

func ConvertEventSum(s *logdb.Sum) *EventSum {
	sum := &EventSum{Count: s.Count, Amount: s.Amount, Extra: s.Extra}
	if sum.Amount == nil {
		sum.Amount = new(uint256.Int)
	}
	if sum.Extra == nil {
		sum.Extra = new(uint256.Int)
	}
	return sum
}
