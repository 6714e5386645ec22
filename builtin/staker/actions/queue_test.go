// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooledstaking/pstake/builtin/solidity"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/pstake"
	"github.com/pooledstaking/pstake/state"
	"github.com/pooledstaking/pstake/test/datagen"
)

func newQueue(t *testing.T) (*Queue, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return New(solidity.NewContext(pstake.StakerAddress, st)), st
}

func TestQueueFIFO(t *testing.T) {
	q, _ := newQueue(t)
	a, b := datagen.RandAddress(), datagen.RandAddress()

	empty, err := q.Peek()
	require.NoError(t, err)
	assert.Nil(t, empty)

	pushes := []struct {
		kind     Kind
		contract pstake.Address
		amount   uint64
	}{
		{Reward, b, 20},
		{Burn, a, 100},
		{Reward, a, 30},
	}
	for i, p := range pushes {
		action, err := q.Push(p.kind, p.contract, uint256.NewInt(p.amount), uint64(10+i))
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), action.ID)
	}

	n, err := q.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	pending, err := q.PendingFor(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), pending)

	list, err := q.List(1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Burn, list[0].Kind)
	assert.Equal(t, uint64(11), list[0].PushedAt)

	for _, p := range pushes {
		action, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, p.kind, action.Kind)
		assert.Equal(t, p.contract, action.Contract)
		assert.Equal(t, uint256.NewInt(p.amount), action.Amount)
	}

	last, err := q.Pop()
	require.NoError(t, err)
	assert.Nil(t, last)

	has, err := q.HasPendingFor(a)
	require.NoError(t, err)
	assert.False(t, has)

	// ids keep increasing after the queue drains
	action, err := q.Push(Burn, a, uint256.NewInt(1), 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), action.ID)
}

func TestQueueListLimit(t *testing.T) {
	q, _ := newQueue(t)
	c := datagen.RandAddress()
	for i := range 5 {
		_, err := q.Push(Reward, c, uint256.NewInt(uint64(i+1)), 0)
		require.NoError(t, err)
	}

	// drained actions shift the window
	_, err := q.Pop()
	require.NoError(t, err)

	tests := []struct {
		offset, limit uint64
		ids           []uint64
	}{
		{0, 2, []uint64{2, 3}},
		{3, 10, []uint64{5}},
		{4, 10, []uint64{}},
		{9, 10, []uint64{}},
		{0, 0, []uint64{}},
		{math.MaxUint64, 10, []uint64{}},
		{math.MaxUint64 - 1, 10, []uint64{}},
		{1, math.MaxUint64, []uint64{3, 4, 5}},
	}
	for _, tt := range tests {
		list, err := q.List(tt.offset, tt.limit)
		require.NoError(t, err, "offset %d", tt.offset)
		ids := make([]uint64, 0, len(list))
		for _, a := range list {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, tt.ids, ids, "offset %d limit %d", tt.offset, tt.limit)
	}
}

func TestQueueRevert(t *testing.T) {
	q, st := newQueue(t)
	c := datagen.RandAddress()

	_, err := q.Push(Burn, c, uint256.NewInt(1), 0)
	require.NoError(t, err)

	chk := st.NewCheckpoint()
	_, err = q.Pop()
	require.NoError(t, err)
	st.RevertTo(chk)

	n, err := q.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	has, err := q.HasPendingFor(c)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "burn", Burn.String())
	assert.Equal(t, "reward", Reward.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
