// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
	"github.com/pooledstaking/pstake/test/datagen"
)

func M(a ...any) []any {
	return a
}

func newToken(t *testing.T) (*Token, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return New(pstake.TokenAddress, st), st
}

func TestMintBurn(t *testing.T) {
	tk, _ := newToken(t)
	holder := datagen.RandAddress()

	require.NoError(t, tk.Mint(holder, pstake.Ether(10)))
	assert.Equal(t, M(pstake.Ether(10), nil), M(tk.BalanceOf(holder)))
	assert.Equal(t, M(pstake.Ether(10), nil), M(tk.TotalSupply()))

	require.NoError(t, tk.Burn(holder, pstake.Ether(4)))
	assert.Equal(t, M(pstake.Ether(6), nil), M(tk.BalanceOf(holder)))
	assert.Equal(t, M(pstake.Ether(6), nil), M(tk.TotalSupply()))
	assert.Equal(t, M(pstake.Ether(10), nil), M(tk.TotalMinted()))
	assert.Equal(t, M(pstake.Ether(4), nil), M(tk.TotalBurned()))

	err := tk.Burn(holder, pstake.Ether(7))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))
}

func TestTransfer(t *testing.T) {
	tk, _ := newToken(t)
	a, b := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tk.Mint(a, uint256.NewInt(100)))
	require.NoError(t, tk.Transfer(a, b, uint256.NewInt(30)))
	assert.Equal(t, M(uint256.NewInt(70), nil), M(tk.BalanceOf(a)))
	assert.Equal(t, M(uint256.NewInt(30), nil), M(tk.BalanceOf(b)))

	err := tk.Transfer(b, a, uint256.NewInt(31))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))
}

func TestTransferFrom(t *testing.T) {
	tk, _ := newToken(t)
	owner, spender, custody := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tk.Mint(owner, uint256.NewInt(100)))

	err := tk.TransferFrom(spender, owner, custody, uint256.NewInt(10))
	assert.True(t, reverts.Is(err, reverts.InsufficientAllowance))

	require.NoError(t, tk.Approve(owner, spender, uint256.NewInt(50)))
	require.NoError(t, tk.TransferFrom(spender, owner, custody, uint256.NewInt(40)))
	assert.Equal(t, M(uint256.NewInt(10), nil), M(tk.Allowance(owner, spender)))
	assert.Equal(t, M(uint256.NewInt(40), nil), M(tk.BalanceOf(custody)))
	assert.Equal(t, M(uint256.NewInt(60), nil), M(tk.BalanceOf(owner)))
}

func TestRevertWithState(t *testing.T) {
	tk, st := newToken(t)
	holder := datagen.RandAddress()

	chk := st.NewCheckpoint()
	require.NoError(t, tk.Mint(holder, uint256.NewInt(5)))
	st.RevertTo(chk)

	assert.Equal(t, M(new(uint256.Int), nil), M(tk.BalanceOf(holder)))
	assert.Equal(t, M(new(uint256.Int), nil), M(tk.TotalSupply()))
}
