// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
)

var (
	slotTotalSupply = pstake.BytesToBytes32([]byte("total-supply"))
	slotTotalMinted = pstake.BytesToBytes32([]byte("total-minted"))
	slotTotalBurned = pstake.BytesToBytes32([]byte("total-burned"))
	slotBalances    = pstake.BytesToBytes32([]byte("balances"))
	slotAllowances  = pstake.BytesToBytes32([]byte("allowances"))
)

// Token is a fungible balance ledger living in the same state as the staking contract,
// so token movements revert together with staking changes.
type Token struct {
	totalSupply *solidity.Uint256
	totalMinted *solidity.Uint256
	totalBurned *solidity.Uint256
	balances    *solidity.Mapping[pstake.Address, *uint256.Int]
	allowances  *solidity.Mapping[pstake.Bytes32, *uint256.Int]
}

func New(addr pstake.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		totalMinted: solidity.NewUint256(sctx, slotTotalMinted),
		totalBurned: solidity.NewUint256(sctx, slotTotalBurned),
		balances:    solidity.NewMapping[pstake.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[pstake.Bytes32, *uint256.Int](sctx, slotAllowances),
	}
}

func allowanceKey(owner, spender pstake.Address) pstake.Bytes32 {
	return pstake.Blake2b(owner.Bytes(), spender.Bytes())
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr pstake.Address) (*uint256.Int, error) {
	return t.balances.Get(addr)
}

// TotalSupply returns the amount of tokens in existence.
func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

// TotalMinted returns the amount ever minted.
func (t *Token) TotalMinted() (*uint256.Int, error) {
	return t.totalMinted.Get()
}

// TotalBurned returns the amount ever burned.
func (t *Token) TotalBurned() (*uint256.Int, error) {
	return t.totalBurned.Get()
}

func (t *Token) add(addr pstake.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.New(reverts.ArithmeticOverflow, "balance of %v", addr)
	}
	return t.balances.Set(addr, bal)
}

func (t *Token) sub(addr pstake.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.New(reverts.InsufficientBalance, "balance of %v is %v, want %v", addr, bal.Dec(), amount.Dec())
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

// Mint creates amount tokens owned by to.
func (t *Token) Mint(to pstake.Address, amount *uint256.Int) error {
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.totalMinted.Add(amount); err != nil {
		return err
	}
	return t.add(to, amount)
}

// Burn destroys amount tokens owned by from.
func (t *Token) Burn(from pstake.Address, amount *uint256.Int) error {
	if err := t.sub(from, amount); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return err
	}
	return t.totalBurned.Add(amount)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to pstake.Address, amount *uint256.Int) error {
	if err := t.sub(from, amount); err != nil {
		return err
	}
	return t.add(to, amount)
}

// Approve sets the amount spender may move on behalf of owner.
func (t *Token) Approve(owner, spender pstake.Address, amount *uint256.Int) error {
	return t.allowances.Set(allowanceKey(owner, spender), amount)
}

// Allowance returns the amount spender may still move on behalf of owner.
func (t *Token) Allowance(owner, spender pstake.Address) (*uint256.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// TransferFrom moves amount from owner to to, consuming spender's allowance.
func (t *Token) TransferFrom(spender, owner, to pstake.Address, amount *uint256.Int) error {
	allowed, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return reverts.New(reverts.InsufficientAllowance, "allowance of %v for %v is %v, want %v", owner, spender, allowed.Dec(), amount.Dec())
	}
	if err := t.Transfer(owner, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(allowanceKey(owner, spender), allowed.Sub(allowed, amount))
}
