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
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/test/datagen"
)

func TestProcess_Empty(t *testing.T) {
	ts := newTest(t)
	one := ts.Member(1000)
	a := datagen.RandAddress()
	ts.Stake(one, 100, addrs(a), 100)
	before := len(ts.Events())

	for range 2 {
		res := ts.Process()
		assert.Equal(t, 0, res.Processed())
		assert.True(t, res.Burned.IsZero())
		assert.True(t, res.Minted.IsZero())
	}
	assert.Len(t, ts.Events(), before)
	ts.AssertDeposit(one, ether(100)).AssertStake(one, a, ether(100)).AssertCustody(ether(100))
}

func TestProcess_RewardSplit(t *testing.T) {
	ts := newTest(t)
	contract := datagen.RandAddress()
	members := []pstake.Address{ts.Member(1000), ts.Member(1000), ts.Member(1000)}
	for i, stake := range []uint64{100, 180, 230} {
		ts.Stake(members[i], stake, addrs(contract), stake)
	}

	ts.Reward(contract, ether(50))
	before := len(ts.Events())
	res := ts.Process()
	assert.Equal(t, 1, res.Rewards)
	assert.Equal(t, ether(50), res.Minted)

	want := []string{"9803921568627450980", "17647058823529411764", "22549019607843137254"}
	for i, m := range members {
		ts.AssertReward(m, pstake.MustParseAmount(want[i]))
	}
	ts.AssertCustody(ether(560))

	events := ts.LastEvents(before)
	require.Len(t, events, 1)
	assert.Equal(t, Rewarded, events[0].Kind)
	assert.Equal(t, contract, events[0].Contract)
	assert.Equal(t, ether(50), events[0].Amount)
}

func TestProcess_BurnThenReward(t *testing.T) {
	ts := newTest(t)
	contract := datagen.RandAddress()
	members := []pstake.Address{ts.Member(1000), ts.Member(1000), ts.Member(1000)}
	for i, stake := range []uint64{100, 200, 300} {
		ts.Stake(members[i], stake, addrs(contract), stake)
	}

	ts.Burn(contract, ether(500))
	res := ts.Process()
	assert.Equal(t, 1, res.Burns)

	stakes := []string{"16666666666666666667", "33333333333333333334", "50000000000000000000"}
	burned := new(uint256.Int)
	for i, m := range members {
		want := pstake.MustParseAmount(stakes[i])
		ts.AssertStake(m, contract, want).AssertDeposit(m, want)
		burned.Add(burned, want)
	}
	// burned is 600 minus the remaining stakes
	burned.Sub(ether(600), burned)
	assert.Equal(t, burned, res.Burned)
	ts.AssertCustody(new(uint256.Int).Sub(ether(600), burned))

	ts.Reward(contract, ether(50))
	ts.Process()
	rewards := []string{"8333333333333333333", "16666666666666666666", "24999999999999999999"}
	for i, m := range members {
		ts.AssertReward(m, pstake.MustParseAmount(rewards[i]))
	}
}

// memberOne stakes on A, B and C, memberTwo only on C. A burn on A lowers memberOne's
// deposit which caps its stake on C before the reward on C is split.
func TestProcess_CrossContract(t *testing.T) {
	ts := newTest(t)
	ts.SetParam(params.MaxExposure, uint256.NewInt(2))
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	one, two := ts.Member(1000), ts.Member(1000)

	ts.Stake(one, 200, addrs(a), 200)
	ts.Stake(one, 0, addrs(a, b, c), 200, 50, 150)
	ts.Stake(two, 200, addrs(c), 200)

	ts.Reward(b, ether(20))
	ts.Burn(a, ether(100))
	ts.Reward(c, ether(30))

	res := ts.Process()
	assert.Equal(t, M(1, 2, 0), M(res.Burns, res.Rewards, res.Unstakes))

	ts.AssertDeposit(one, ether(100)).
		AssertStake(one, a, ether(100)).
		AssertStake(one, b, ether(50)).
		AssertStake(one, c, ether(100)).
		AssertReward(one, ether(30))
	ts.AssertDeposit(two, ether(200)).
		AssertStake(two, c, ether(200)).
		AssertReward(two, ether(20))
	ts.AssertCustody(ether(350))

	assert.Equal(t, M(ether(300), nil), M(ts.ContractTotalStake(c)))
}

// A burn on one contract caps the burned staker's stake on another, so the split of a
// reward on that other contract depends on queue order.
func TestProcess_OrderMatters(t *testing.T) {
	run := func(burnFirst bool) (*uint256.Int, *uint256.Int) {
		ts := newTest(t)
		a, b := datagen.RandAddress(), datagen.RandAddress()
		one, two := ts.Member(1000), ts.Member(1000)
		ts.Stake(one, 100, addrs(a, b), 100, 100)
		ts.Stake(two, 100, addrs(b), 100)
		if burnFirst {
			ts.Burn(a, ether(50))
			ts.Reward(b, ether(30))
		} else {
			ts.Reward(b, ether(30))
			ts.Burn(a, ether(50))
		}
		ts.Process()
		ts.AssertStake(one, b, ether(50))
		r1, err := ts.StakerReward(one)
		require.NoError(t, err)
		r2, err := ts.StakerReward(two)
		require.NoError(t, err)
		return r1, r2
	}

	r1, r2 := run(false)
	assert.Equal(t, ether(15), r1)
	assert.Equal(t, ether(15), r2)

	r1, r2 = run(true)
	assert.Equal(t, ether(10), r1)
	assert.Equal(t, ether(20), r2)
}

func TestProcess_ZeroStake(t *testing.T) {
	ts := newTest(t)
	one := ts.Member(1000)
	staked, empty := datagen.RandAddress(), datagen.RandAddress()
	ts.Stake(one, 20, addrs(staked), 20)

	ts.Reward(empty, ether(5))
	ts.Burn(empty, ether(5))
	before := len(ts.Events())
	res := ts.Process()

	assert.Equal(t, M(1, 1), M(res.Burns, res.Rewards))
	assert.True(t, res.Minted.IsZero())
	assert.True(t, res.Burned.IsZero())
	ts.AssertCustody(ether(20)).AssertDeposit(one, ether(20)).AssertReward(one, new(uint256.Int))

	events := ts.LastEvents(before)
	require.Len(t, events, 1)
	assert.Equal(t, Burned, events[0].Kind)
	assert.True(t, events[0].Extra.IsZero())
}

func TestProcess_CustodyAfterMint(t *testing.T) {
	ts := newTest(t)
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	ts.SetParam(params.MinStake, ether(1))
	ts.Stake(one, 10, addrs(contract), 10)
	ts.Reward(contract, ether(2))
	ts.Process()

	ts.AssertCustody(ether(12)).AssertReward(one, ether(2))
	assert.Equal(t, M(ether(1002), nil), M(ts.token.TotalSupply()))
}

func TestProcess_BurnExceedingStake(t *testing.T) {
	ts := newTest(t)
	one, two := ts.Member(1000), ts.Member(1000)
	contract := datagen.RandAddress()
	ts.Stake(one, 100, addrs(contract), 40)
	ts.Stake(two, 100, addrs(contract), 60)

	ts.Burn(contract, ether(1000))
	res := ts.Process()
	assert.Equal(t, ether(100), res.Burned)
	ts.AssertStake(one, contract, new(uint256.Int)).AssertDeposit(one, ether(60))
	ts.AssertStake(two, contract, new(uint256.Int)).AssertDeposit(two, ether(40))
	ts.AssertCustody(ether(100))

	burned := ts.Events()[len(ts.Events())-1]
	assert.Equal(t, ether(1000), burned.Amount)
	assert.Equal(t, ether(100), burned.Extra)
}

func TestProcess_UnstakeInterleaving(t *testing.T) {
	ts := newTest(t)
	ts.SetParam(params.UnstakeLockTime, uint256.NewInt(10))
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	ts.Stake(one, 200, addrs(contract), 200)

	start := ts.now
	_, err := ts.RequestUnstake(one, addrs(contract), amounts(100), start) // matures at start+10
	require.NoError(t, err)

	ts.Advance(5).Burn(contract, ether(20))    // before maturity
	ts.Advance(5).Reward(contract, ether(10))  // tie with maturity
	ts.Advance(10).Reward(contract, ether(10)) // after maturity

	before := len(ts.Events())
	res := ts.Process()
	assert.Equal(t, M(1, 2, 1), M(res.Burns, res.Rewards, res.Unstakes))

	kinds := make([]EventKind, 0)
	for _, ev := range ts.LastEvents(before) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{Burned, Rewarded, Unstaked, Rewarded}, kinds)

	// burn takes 20 from 200, unstake releases 100 of the remaining 180
	ts.AssertStake(one, contract, ether(80)).AssertDeposit(one, ether(180))
}

func TestProcess_UnstakeAfterBurnReleasesRemainder(t *testing.T) {
	ts := newTest(t)
	ts.SetParam(params.UnstakeLockTime, uint256.NewInt(10))
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	ts.Stake(one, 100, addrs(contract), 100)

	_, err := ts.RequestUnstake(one, addrs(contract), amounts(100), ts.now)
	require.NoError(t, err)
	ts.Burn(contract, ether(30))
	ts.Advance(10).Process()

	ts.AssertStake(one, contract, new(uint256.Int)).AssertDeposit(one, ether(70))
	unstaked := ts.Events()[len(ts.Events())-1]
	assert.Equal(t, Unstaked, unstaked.Kind)
	assert.Equal(t, ether(100), unstaked.Amount)
	assert.Equal(t, ether(70), unstaked.Extra)
	assert.Equal(t, M(new(uint256.Int), nil), M(ts.StakerPendingUnstake(one, contract)))
}

func TestProcess_FailureRevertsEverything(t *testing.T) {
	ts := newTest(t)
	one := ts.Member(1000)
	contract := datagen.RandAddress()
	ts.Stake(one, 100, addrs(contract), 100)

	ts.Reward(contract, ether(1))
	// the second reward overflows the token supply
	ts.Reward(contract, new(uint256.Int).SetAllOne())
	before := len(ts.Events())

	_, err := ts.ProcessPendingActions(ts.now)
	assert.True(t, reverts.Is(err, reverts.ProcessingFailed))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
	kind, _ := reverts.KindOf(err)
	assert.Equal(t, reverts.ProcessingFailed, kind)

	assert.Len(t, ts.Events(), before)
	ts.AssertReward(one, new(uint256.Int)).AssertCustody(ether(100))
	assert.Equal(t, M(uint64(2), nil), M(ts.PendingActionsLen()))
}

func TestPushActions(t *testing.T) {
	ts := newTest(t)
	contract := datagen.RandAddress()

	_, err := ts.PushBurn(datagen.RandAddress(), contract, ether(1), ts.now)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = ts.PushReward(ts.internal, contract, new(uint256.Int), ts.now)
	assert.True(t, reverts.Is(err, reverts.ZeroAmount))
	_, err = ts.PushReward(ts.internal, pstake.Address{}, ether(1), ts.now)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument))

	burn := ts.Burn(contract, ether(3))
	reward := ts.Reward(contract, ether(4))
	assert.Equal(t, uint64(1), burn.ID)
	assert.Equal(t, uint64(2), reward.ID)

	pending, err := ts.PendingActions(0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ether(3), pending[0].Amount)
	assert.Equal(t, M(true, nil), M(ts.HasPendingActions(contract)))

	assert.Equal(t, []EventKind{BurnRequested, RewardRequested}, ts.EventKinds())
	assert.Equal(t, uint256.NewInt(2), ts.Events()[1].Extra)
}
