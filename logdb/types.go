// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/pstake"
)

// Event is a committed staking event. Seq is unique and increases with commit order.
type Event struct {
	Seq      uint64
	Time     uint64
	Kind     string
	Contract pstake.Address
	Staker   pstake.Address
	Amount   *uint256.Int
	Extra    *uint256.Int
	ActionID uint64
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive. To is ignored when lower than From.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventFilter struct {
	Kinds    []string
	Contract *pstake.Address
	Staker   *pstake.Address
	Range    *Range
	Options  *Options
	Order    Order //default asc
}

// Sum aggregates the Amount and Extra of matching events.
type Sum struct {
	Count  uint64
	Amount *uint256.Int
	Extra  *uint256.Int
}
