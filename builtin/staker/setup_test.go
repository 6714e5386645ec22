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

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/staker/actions"
	"github.com/pooledstaking/pstake/builtin/token"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
	"github.com/pooledstaking/pstake/test/datagen"
)

func M(a ...any) []any {
	return a
}

func ether(n uint64) *uint256.Int {
	return pstake.Ether(n)
}

func amounts(ns ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, 0, len(ns))
	for _, n := range ns {
		out = append(out, ether(n))
	}
	return out
}

func addrs(a ...pstake.Address) []pstake.Address {
	return a
}

type StakerTest struct {
	*Staker
	t          *testing.T
	st         *state.State
	token      *token.Token
	roles      *access.List
	internal   pstake.Address
	governance pstake.Address
	now        uint64
}

func newTest(t *testing.T) *StakerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tk := token.New(pstake.TokenAddress, st)
	roles := access.NewList()
	internal, governance := datagen.RandAddress(), datagen.RandAddress()
	roles.Grant(access.Internal, internal)
	roles.Grant(access.Governance, governance)

	return &StakerTest{
		Staker:     New(pstake.StakerAddress, st, params.New(pstake.ParamsAddress, st), tk, roles),
		t:          t,
		st:         st,
		token:      tk,
		roles:      roles,
		internal:   internal,
		governance: governance,
		now:        1_000_000,
	}
}

// Member registers a funded member that approved the staker for its whole balance.
func (ts *StakerTest) Member(balance uint64) pstake.Address {
	addr := datagen.RandAddress()
	ts.roles.Grant(access.Member, addr)
	require.NoError(ts.t, ts.token.Mint(addr, ether(balance)))
	require.NoError(ts.t, ts.token.Approve(addr, ts.Address(), new(uint256.Int).SetAllOne()))
	return addr
}

// Stake deposits amount and stakes the given per-contract totals, failing the test on error.
func (ts *StakerTest) Stake(member pstake.Address, amount uint64, contracts []pstake.Address, stakes ...uint64) *StakerTest {
	require.NoError(ts.t, ts.DepositAndStake(member, ether(amount), contracts, amounts(stakes...)))
	return ts
}

func (ts *StakerTest) Burn(contract pstake.Address, amount *uint256.Int) *actions.Action {
	a, err := ts.PushBurn(ts.internal, contract, amount, ts.now)
	require.NoError(ts.t, err)
	return a
}

func (ts *StakerTest) Reward(contract pstake.Address, amount *uint256.Int) *actions.Action {
	a, err := ts.PushReward(ts.internal, contract, amount, ts.now)
	require.NoError(ts.t, err)
	return a
}

func (ts *StakerTest) Process() *Settlement {
	res, err := ts.ProcessPendingActions(ts.now)
	require.NoError(ts.t, err)
	return res
}

func (ts *StakerTest) SetParam(key params.Key, value *uint256.Int) *StakerTest {
	require.NoError(ts.t, ts.UpdateParameter(ts.governance, key, value))
	return ts
}

// Advance moves the test clock forward by secs.
func (ts *StakerTest) Advance(secs uint64) *StakerTest {
	ts.now += secs
	return ts
}

func (ts *StakerTest) AssertStake(member, contract pstake.Address, want *uint256.Int) *StakerTest {
	got, err := ts.StakerContractStake(member, contract)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, want, got, "stake of %v on %v", member, contract)
	return ts
}

func (ts *StakerTest) AssertDeposit(member pstake.Address, want *uint256.Int) *StakerTest {
	got, err := ts.StakerDeposit(member)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, want, got, "deposit of %v", member)
	return ts
}

func (ts *StakerTest) AssertReward(member pstake.Address, want *uint256.Int) *StakerTest {
	got, err := ts.StakerReward(member)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, want, got, "reward of %v", member)
	return ts
}

func (ts *StakerTest) AssertCustody(want *uint256.Int) *StakerTest {
	got, err := ts.Custody()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, want, got, "custody balance")
	return ts
}

// EventKinds returns the kinds of all emitted events.
func (ts *StakerTest) EventKinds() []EventKind {
	kinds := make([]EventKind, 0, len(ts.Events()))
	for _, ev := range ts.Events() {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

// LastEvents returns the events emitted after the first n.
func (ts *StakerTest) LastEvents(n int) []*Event {
	return ts.Events()[n:]
}
