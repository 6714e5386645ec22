// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/test/datagen"
)

type fuzzCase struct {
	Stakes []uint32
	Amount uint64
	Dust   uint32
}

func newFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 8)
}

// setupFuzz stakes every fuzzed amount from a distinct member on one contract.
func setupFuzz(t *testing.T, c fuzzCase) (*StakerTest, pstake.Address, []pstake.Address, *uint256.Int) {
	ts := newTest(t)
	contract := datagen.RandAddress()
	members := make([]pstake.Address, 0, len(c.Stakes))
	total := new(uint256.Int)
	for _, s := range c.Stakes {
		// whole tokens plus a fuzzed dust part exercise rounding
		stake := new(uint256.Int).Add(ether(uint64(s%10_000)+20), uint256.NewInt(uint64(c.Dust)))
		m := ts.Member(20_000)
		require.NoError(t, ts.DepositAndStake(m, stake, addrs(contract), []*uint256.Int{stake}))
		members = append(members, m)
		total.Add(total, stake)
	}
	return ts, contract, members, total
}

func TestProperty_RewardConservation(t *testing.T) {
	f := newFuzzer(1)
	for range 50 {
		var c fuzzCase
		f.Fuzz(&c)
		if len(c.Stakes) == 0 {
			continue
		}
		ts, contract, members, _ := setupFuzz(t, c)
		custody, err := ts.Custody()
		require.NoError(t, err)

		amount := uint256.NewInt(c.Amount | 1)
		ts.Reward(contract, amount)
		ts.Process()

		credited := new(uint256.Int)
		for _, m := range members {
			r, err := ts.StakerReward(m)
			require.NoError(t, err)
			credited.Add(credited, r)
		}
		// sum(credited) <= amount < sum(credited) + n
		assert.False(t, amount.Lt(credited))
		slack := new(uint256.Int).Sub(amount, credited)
		assert.True(t, slack.Lt(uint256.NewInt(uint64(len(members)))), "slack %v for %d stakers", slack, len(members))

		ts.AssertCustody(new(uint256.Int).Add(custody, amount))
	}
}

func TestProperty_BurnConservation(t *testing.T) {
	f := newFuzzer(2)
	for range 50 {
		var c fuzzCase
		f.Fuzz(&c)
		if len(c.Stakes) == 0 {
			continue
		}
		ts, contract, members, total := setupFuzz(t, c)

		amount := new(uint256.Int).Mul(uint256.NewInt(c.Amount%20_000+1), uint256.NewInt(1e15))
		capped := amount
		if total.Lt(capped) {
			capped = total
		}
		deposits := make([]*uint256.Int, 0, len(members))
		for _, m := range members {
			d, err := ts.StakerDeposit(m)
			require.NoError(t, err)
			deposits = append(deposits, d)
		}

		ts.Burn(contract, amount)
		res := ts.Process()

		decrement := new(uint256.Int)
		for i, m := range members {
			d, err := ts.StakerDeposit(m)
			require.NoError(t, err)
			s, err := ts.StakerContractStake(m, contract)
			require.NoError(t, err)
			// every staker loses the same amount from stake and deposit
			lost := new(uint256.Int).Sub(deposits[i], d)
			assert.Equal(t, d, s)
			decrement.Add(decrement, lost)
		}
		assert.Equal(t, res.Burned, decrement)
		// sum(burned) <= min(amount, total) < sum(burned) + n
		assert.False(t, capped.Lt(decrement))
		slack := new(uint256.Int).Sub(capped, decrement)
		assert.True(t, slack.Lt(uint256.NewInt(uint64(len(members)))), "slack %v for %d stakers", slack, len(members))
	}
}
