// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/test/datagen"
)

func TestWithdrawReward(t *testing.T) {
	ts := newTest(t)
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	ts.Stake(one, 100, addrs(contract), 100)
	ts.Reward(contract, ether(10))

	// not settled yet
	err := ts.WithdrawReward(one, ether(1))
	assert.True(t, reverts.Is(err, reverts.InsufficientReward))

	ts.Process()
	assert.True(t, reverts.Is(ts.WithdrawReward(one, new(uint256.Int)), reverts.ZeroAmount))
	assert.True(t, reverts.Is(ts.WithdrawReward(one, ether(11)), reverts.InsufficientReward))
	assert.True(t, reverts.Is(ts.WithdrawReward(datagen.RandAddress(), ether(1)), reverts.Unauthorized))

	require.NoError(t, ts.WithdrawReward(one, ether(4)))
	ts.AssertReward(one, ether(6)).AssertCustody(ether(106))
	assert.Equal(t, M(ether(904), nil), M(ts.token.BalanceOf(one)))

	last := ts.Events()[len(ts.Events())-1]
	assert.Equal(t, RewardWithdrawn, last.Kind)
	assert.Equal(t, ether(6), last.Extra)

	// the deposit is untouched
	ts.AssertDeposit(one, ether(100))
}

func TestUpdateParameter(t *testing.T) {
	ts := newTest(t)

	err := ts.UpdateParameter(datagen.RandAddress(), params.MinStake, ether(1))
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	err = ts.UpdateParameter(ts.governance, params.Key(42), ether(1))
	assert.True(t, reverts.Is(err, reverts.UnknownParameter))

	ts.SetParam(params.MinStake, ether(50))
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	err = ts.DepositAndStake(one, ether(100), addrs(contract), amounts(40))
	assert.True(t, reverts.Is(err, reverts.MinStakeNotMet))

	ev := ts.Events()[0]
	assert.Equal(t, ParameterUpdated, ev.Kind)
	assert.Equal(t, ts.governance, ev.Staker)
	assert.Equal(t, ether(50), ev.Amount)
	assert.Equal(t, uint256.NewInt(uint64(params.MinStake)), ev.Extra)
}

func TestEventKinds(t *testing.T) {
	for _, k := range EventKinds() {
		assert.True(t, k.Valid())
	}
	assert.False(t, EventKind("Slashed").Valid())
}
