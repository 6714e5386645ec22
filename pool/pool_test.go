// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/access"
	"github.com/pooledstaking/pstake/builtin/params"
	"github.com/pooledstaking/pstake/builtin/reverts"
	"github.com/pooledstaking/pstake/builtin/staker"
	"github.com/pooledstaking/pstake/kv"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/test/datagen"
)

type poolTest struct {
	*Pool
	t          *testing.T
	db         kv.Store
	logDB      *logdb.LogDB
	roles      *access.List
	internal   pstake.Address
	governance pstake.Address
	now        uint64
}

func newPoolTest(t *testing.T) *poolTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return openPoolTest(t, db)
}

func openPoolTest(t *testing.T, db kv.Store) *poolTest {
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	pt := &poolTest{
		t:          t,
		db:         db,
		logDB:      logDB,
		roles:      access.NewList(),
		internal:   datagen.RandAddress(),
		governance: datagen.RandAddress(),
		now:        1_000_000,
	}
	pt.roles.Grant(access.Internal, pt.internal)
	pt.roles.Grant(access.Governance, pt.governance)

	pt.Pool, err = New(db, logDB, pt.roles, Options{CacheSize: 16, Clock: func() uint64 { return pt.now }})
	require.NoError(t, err)
	return pt
}

// member registers a funded member whose balance is approved for the staker.
func (pt *poolTest) member(balance uint64) pstake.Address {
	addr := datagen.RandAddress()
	pt.roles.Grant(access.Member, addr)
	_, err := pt.Execute("fund", func(ctx *Context) error {
		return ctx.Token.Mint(addr, pstake.Ether(balance))
	})
	require.NoError(pt.t, err)
	_, err = pt.Approve(addr, pstake.Ether(balance))
	require.NoError(pt.t, err)
	return addr
}

func TestGenesis(t *testing.T) {
	pt := newPoolTest(t)
	holder := datagen.RandAddress()

	ok, err := pt.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = pt.Genesis(&Genesis{
		Balances: map[pstake.Address]*uint256.Int{holder: pstake.Ether(500)},
		Params:   map[params.Key]*uint256.Int{params.MaxExposure: uint256.NewInt(2)},
	})
	require.NoError(t, err)

	bal, err := pt.TokenBalance(holder)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(500), bal)
	exposure, err := pt.Parameter(params.MaxExposure)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(2), exposure)

	ok, err = pt.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = pt.Genesis(&Genesis{Balances: map[pstake.Address]*uint256.Int{holder: pstake.Ether(1)}})
	assert.Equal(t, ErrInitialized, err)
	bal, err = pt.TokenBalance(holder)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(500), bal)
}

func TestRewardSettlementEndToEnd(t *testing.T) {
	pt := newPoolTest(t)
	contract := datagen.RandAddress()
	members := []pstake.Address{pt.member(100), pt.member(180), pt.member(230)}
	for i, stake := range []uint64{100, 180, 230} {
		_, err := pt.DepositAndStake(members[i], pstake.Ether(stake), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(stake)})
		require.NoError(t, err)
	}

	action, _, err := pt.PushReward(pt.internal, contract, pstake.Ether(50))
	require.NoError(t, err)
	pending, total, err := pt.PendingActions(0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, action.ID, pending[0].ID)

	summary, err := pt.ContractSummary(contract)
	require.NoError(t, err)
	assert.True(t, summary.Pending)
	assert.Equal(t, pstake.Ether(510), summary.TotalStake)
	require.Len(t, summary.Stakers, 3)
	assert.Equal(t, members[0], summary.Stakers[0].Staker)

	settlement, receipt, err := pt.ProcessPendingActions()
	require.NoError(t, err)
	assert.Equal(t, 1, settlement.Rewards)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, string(staker.Rewarded), receipt.Events[0].Kind)

	want := []string{"9803921568627450980", "17647058823529411764", "22549019607843137254"}
	for i, m := range members {
		reward, err := pt.StakerReward(m)
		require.NoError(t, err)
		assert.Equal(t, pstake.MustParseAmount(want[i]), reward)
	}
	custody, err := pt.Custody()
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(560), custody)

	// 3 x (Deposited, Staked) + RewardRequested + Rewarded
	assert.Equal(t, uint64(8), pt.LastSeq())
	events, err := pt.logDB.FilterEvents(context.Background(), &logdb.EventFilter{Kinds: []string{string(staker.Rewarded)}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(8), events[0].Seq)
	assert.Equal(t, pt.now, events[0].Time)
	assert.Equal(t, pstake.Ether(50), events[0].Amount)
}

func TestFailedOperationCommitsNothing(t *testing.T) {
	pt := newPoolTest(t)
	one := pt.member(100)
	contract := datagen.RandAddress()
	seq := pt.LastSeq()

	_, err := pt.DepositAndStake(one, pstake.Ether(150), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(150)})
	assert.True(t, reverts.Is(err, reverts.InsufficientAllowance))
	assert.Equal(t, seq, pt.LastSeq())

	deposit, err := pt.StakerDeposit(one)
	require.NoError(t, err)
	assert.True(t, deposit.IsZero())
	bal, err := pt.TokenBalance(one)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(100), bal)
}

func TestQueuedActionsBlockContract(t *testing.T) {
	pt := newPoolTest(t)
	one := pt.member(200)
	contract := datagen.RandAddress()
	_, err := pt.DepositAndStake(one, pstake.Ether(100), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(100)})
	require.NoError(t, err)

	_, _, err = pt.PushBurn(pt.internal, contract, pstake.Ether(10))
	require.NoError(t, err)

	_, err = pt.DepositAndStake(one, pstake.Ether(50), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(150)})
	assert.True(t, reverts.Is(err, reverts.UnprocessedActionsPending))

	_, _, err = pt.ProcessPendingActions()
	require.NoError(t, err)
	_, err = pt.DepositAndStake(one, pstake.Ether(50), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(140)})
	require.NoError(t, err)

	stake, err := pt.StakerContractStake(one, contract)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(140), stake)
}

func TestUnstakeMaturity(t *testing.T) {
	pt := newPoolTest(t)
	one := pt.member(100)
	contract := datagen.RandAddress()
	_, err := pt.DepositAndStake(one, pstake.Ether(100), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(100)})
	require.NoError(t, err)

	requests, _, err := pt.RequestUnstake(one, []pstake.Address{contract}, []*uint256.Int{pstake.Ether(100)})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, pt.now+pstake.InitialUnstakeLockTime, requests[0].UnstakeAt)

	settlement, _, err := pt.ProcessPendingActions()
	require.NoError(t, err)
	assert.Equal(t, 0, settlement.Processed())

	pt.now += pstake.InitialUnstakeLockTime
	settlement, receipt, err := pt.ProcessPendingActions()
	require.NoError(t, err)
	assert.Equal(t, 1, settlement.Unstakes)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, string(staker.Unstaked), receipt.Events[0].Kind)

	stake, err := pt.StakerContractStake(one, contract)
	require.NoError(t, err)
	assert.True(t, stake.IsZero())
	_, total, err := pt.UnstakeRequests(0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSummaryCache(t *testing.T) {
	pt := newPoolTest(t)
	one := pt.member(100)
	contract := datagen.RandAddress()
	_, err := pt.DepositAndStake(one, pstake.Ether(60), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(40)})
	require.NoError(t, err)

	summary, err := pt.StakerSummary(one)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(60), summary.Deposit)
	require.Len(t, summary.Contracts, 1)
	assert.Equal(t, pstake.Ether(40), summary.Contracts[0].Stake)

	_, err = pt.StakerSummary(one)
	require.NoError(t, err)
	_, hit, miss := pt.SummaryCacheStats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	_, err = pt.DepositAndStake(one, pstake.Ether(40), []pstake.Address{contract}, []*uint256.Int{pstake.Ether(40)})
	require.NoError(t, err)
	summary, err = pt.StakerSummary(one)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(100), summary.Deposit)
	_, _, miss = pt.SummaryCacheStats().Stats()
	assert.Equal(t, int64(2), miss)
}

func TestWaiterWokenOnCommit(t *testing.T) {
	pt := newPoolTest(t)
	w := pt.NewWaiter()

	pt.member(10)
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestSequencePersisted(t *testing.T) {
	db, err := lvldb.New(t.TempDir(), lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	pt := openPoolTest(t, db)
	one := pt.member(100)
	_, err = pt.DepositAndStake(one, pstake.Ether(50), nil, nil)
	require.NoError(t, err)
	seq := pt.LastSeq()
	assert.Equal(t, uint64(1), seq)

	reopened, err := New(db, nil, pt.roles, Options{})
	require.NoError(t, err)
	assert.Equal(t, seq, reopened.LastSeq())
	deposit, err := reopened.StakerDeposit(one)
	require.NoError(t, err)
	assert.Equal(t, pstake.Ether(50), deposit)
}

func TestViewDiscardsChanges(t *testing.T) {
	pt := newPoolTest(t)
	holder := datagen.RandAddress()
	require.NoError(t, pt.View(func(ctx *Context) error {
		return ctx.Token.Mint(holder, pstake.Ether(1))
	}))
	bal, err := pt.TokenBalance(holder)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}
