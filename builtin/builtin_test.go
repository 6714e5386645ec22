// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
	"github.com/pooledstaking/pstake/test/datagen"
)

func TestNativeBindingsShareState(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)

	roles := access.NewList()
	member := datagen.RandAddress()
	roles.Grant(access.Member, member)

	tk := builtin.Token.Native(st)
	require.NoError(t, tk.Mint(member, pstake.Ether(100)))
	require.NoError(t, tk.Approve(member, builtin.Staker.Address, pstake.Ether(100)))

	stkr := builtin.Staker.Native(st, roles)
	assert.Equal(t, pstake.StakerAddress, stkr.Address())
	require.NoError(t, stkr.DepositAndStake(member, pstake.Ether(50), nil, nil))

	custody, err := builtin.Token.Native(st).BalanceOf(builtin.Staker.Address)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(50), custody)

	minStake, err := builtin.Params.Native(st).Get(params.MinStake)
	require.NoError(t, err)
	assert.Equal(t, params.MinStake.Default(), minStake)
}
