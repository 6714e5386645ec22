// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/pstake"
)

// Amounts are encoded as decimal strings of token base units.

type ContractStake struct {
	Contract       pstake.Address `json:"contract"`
	Staker         pstake.Address `json:"staker"`
	Stake          *uint256.Int   `json:"stake"`
	PendingUnstake *uint256.Int   `json:"pendingUnstake"`
}

type Staker struct {
	Address   pstake.Address   `json:"address"`
	Deposit   *uint256.Int     `json:"deposit"`
	Reward    *uint256.Int     `json:"reward"`
	Contracts []*ContractStake `json:"contracts"`
}

type Contract struct {
	Address    pstake.Address   `json:"address"`
	TotalStake *uint256.Int     `json:"totalStake"`
	Pending    bool             `json:"pending"`
	Stakers    []*ContractStake `json:"stakers"`
}

type Action struct {
	ID       uint64         `json:"id"`
	Kind     string         `json:"kind"`
	Contract pstake.Address `json:"contract"`
	Amount   *uint256.Int   `json:"amount"`
	PushedAt uint64         `json:"pushedAt"`
}

type Actions struct {
	Total uint64    `json:"total"`
	Items []*Action `json:"items"`
}

type UnstakeRequest struct {
	ID        uint64         `json:"id"`
	Staker    pstake.Address `json:"staker"`
	Contract  pstake.Address `json:"contract"`
	Amount    *uint256.Int   `json:"amount"`
	UnstakeAt uint64         `json:"unstakeAt"`
}

type UnstakeRequests struct {
	Total uint64            `json:"total"`
	Items []*UnstakeRequest `json:"items"`
}

type Param struct {
	Name      string       `json:"name"`
	ID        uint8        `json:"id"`
	Value     *uint256.Int `json:"value"`
	IsDefault bool         `json:"isDefault"`
}

type Event struct {
	Seq      uint64          `json:"seq"`
	Time     uint64          `json:"time"`
	Kind     string          `json:"kind"`
	Contract *pstake.Address `json:"contract,omitempty"`
	Staker   *pstake.Address `json:"staker,omitempty"`
	Amount   *uint256.Int    `json:"amount"`
	Extra    *uint256.Int    `json:"extra"`
	ActionID uint64          `json:"actionId,omitempty"`
}

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	Kinds    []string        `json:"kinds,omitempty"`
	Contract *pstake.Address `json:"contract,omitempty"`
	Staker   *pstake.Address `json:"staker,omitempty"`
	Range    *Range          `json:"range,omitempty"`
	Options  *Options        `json:"options,omitempty"`
	Order    string          `json:"order,omitempty"`
}

type EventSum struct {
	Count  uint64       `json:"count"`
	Amount *uint256.Int `json:"amount"`
	Extra  *uint256.Int `json:"extra"`
}

// Receipt describes a committed operation.
type Receipt struct {
	Time      uint64         `json:"time"`
	StateHash pstake.Bytes32 `json:"stateHash"`
	Changes   int            `json:"changes"`
	Events    []*Event       `json:"events"`
}

type DepositAndStakeRequest struct {
	Caller    pstake.Address   `json:"caller"`
	Amount    *uint256.Int     `json:"amount"`
	Contracts []pstake.Address `json:"contracts"`
	Stakes    []*uint256.Int   `json:"stakes"`
}

// AmountRequest is the body of single-amount operations.
type AmountRequest struct {
	Caller pstake.Address `json:"caller"`
	Amount *uint256.Int   `json:"amount"`
}

type UnstakeRequestBody struct {
	Caller    pstake.Address   `json:"caller"`
	Contracts []pstake.Address `json:"contracts"`
	Amounts   []*uint256.Int   `json:"amounts"`
}

type ActionRequest struct {
	Caller   pstake.Address `json:"caller"`
	Contract pstake.Address `json:"contract"`
	Amount   *uint256.Int   `json:"amount"`
}

type ParamRequest struct {
	Caller pstake.Address `json:"caller"`
	Value  *uint256.Int   `json:"value"`
}

type UnstakeResult struct {
	Requests []*UnstakeRequest `json:"requests"`
	Receipt  *Receipt          `json:"receipt"`
}

type ActionResult struct {
	Action  *Action  `json:"action"`
	Receipt *Receipt `json:"receipt"`
}

type Settlement struct {
	Burns    int          `json:"burns"`
	Rewards  int          `json:"rewards"`
	Unstakes int          `json:"unstakes"`
	Burned   *uint256.Int `json:"burned"`
	Minted   *uint256.Int `json:"minted"`
	Receipt  *Receipt     `json:"receipt"`
}

type Balance struct {
	Address   pstake.Address `json:"address"`
	Balance   *uint256.Int   `json:"balance"`
	Allowance *uint256.Int   `json:"allowance"`
}

type Status struct {
	Seq             uint64       `json:"seq"`
	Time            uint64       `json:"time"`
	Custody         *uint256.Int `json:"custody"`
	TotalSupply     *uint256.Int `json:"totalSupply"`
	PendingActions  uint64       `json:"pendingActions"`
	UnstakeRequests uint64       `json:"unstakeRequests"`
}

type LogStatus struct {
	Enabled bool `json:"enabled"`
}
