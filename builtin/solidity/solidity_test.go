// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

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

type TestStruct struct {
	Field1 uint64
	Amount *uint256.Int
	Addr1  pstake.Address
	Bytes1 pstake.Bytes32
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(pstake.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[pstake.Address, TestStruct](ctx, pstake.Bytes32{1})

	key := datagen.RandAddress()
	empty, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), empty.Field1)
	assert.True(t, empty.Addr1.IsZero())

	value := TestStruct{
		Field1: 100,
		Amount: uint256.NewInt(200),
		Addr1:  datagen.RandAddress(),
		Bytes1: datagen.RandomHash(),
	}
	require.NoError(t, m.Set(key, value))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value.Field1, got.Field1)
	assert.Equal(t, value.Amount, got.Amount)
	assert.Equal(t, value.Addr1, got.Addr1)
	assert.Equal(t, value.Bytes1, got.Bytes1)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)

	// same key in a mapping at another position is independent
	other := NewMapping[pstake.Address, TestStruct](ctx, pstake.Bytes32{2})
	require.NoError(t, m.Set(key, value))
	got, err = other.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingPointerValue(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[pstake.Bytes32, *TestStruct](ctx, pstake.Bytes32{3})

	got, err := m.Get(pstake.Bytes32{9})
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, m.Set(pstake.Bytes32{9}, &TestStruct{Field1: 7, Amount: uint256.NewInt(1)}))
	got, err = m.Get(pstake.Bytes32{9})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Field1)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, pstake.Bytes32{1})

	u.Set(uint256.NewInt(1000))
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), value)

	assert.NoError(t, u.Add(uint256.NewInt(500)))
	value, _ = u.Get()
	assert.Equal(t, uint256.NewInt(1500), value)

	assert.NoError(t, u.Sub(uint256.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, uint256.NewInt(1300), value)

	err = u.Sub(uint256.NewInt(2000))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
	value, _ = u.Get()
	assert.Equal(t, uint256.NewInt(1300), value, "failed sub leaves value untouched")

	max := new(uint256.Int).SetAllOne()
	u.Set(max)
	err = u.Add(uint256.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, pstake.Bytes32{4})

	got, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	addr := datagen.RandAddress()
	a.Set(&addr)
	got, err = a.Get()
	assert.NoError(t, err)
	assert.Equal(t, addr, got)

	a.Set(nil)
	got, _ = a.Get()
	assert.True(t, got.IsZero())
}

func TestArray(t *testing.T) {
	ctx := newTestContext(t)
	arr := NewArray[pstake.Address](ctx, pstake.Bytes32{5})

	n, err := arr.Len()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	addrs := datagen.RandAddresses(3)
	for i, addr := range addrs {
		idx, err := arr.Push(addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), idx)
	}

	all, err := arr.All()
	require.NoError(t, err)
	assert.Equal(t, addrs, all)

	got, err := arr.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, addrs[1], got)

	_, err = arr.Get(3)
	assert.Error(t, err)

	require.NoError(t, arr.Set(0, addrs[2]))
	got, _ = arr.Get(0)
	assert.Equal(t, addrs[2], got)
	assert.Error(t, arr.Set(10, addrs[0]))
}
