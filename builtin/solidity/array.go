// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/pstake"
)

// Array is an append-only dynamic array, similar to a storage array in Solidity.
// The length lives at pos and element i at blake2b(i, pos).
type Array[V any] struct {
	length *Uint256
	items  *Mapping[pstake.Bytes32, V]
}

func NewArray[V any](context *Context, pos pstake.Bytes32) *Array[V] {
	return &Array[V]{
		length: NewUint256(context, pos),
		items:  NewMapping[pstake.Bytes32, V](context, pos),
	}
}

// Len returns the number of elements.
func (a *Array[V]) Len() (uint64, error) {
	l, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	if !l.IsUint64() {
		return 0, errors.New("array length exceeds uint64")
	}
	return l.Uint64(), nil
}

// Get returns the element at index i.
func (a *Array[V]) Get(i uint64) (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if i >= n {
		return value, errors.Errorf("array index %d out of range [0, %d)", i, n)
	}
	return a.items.Get(pstake.Uint64ToBytes32(i))
}

// Set overwrites the element at index i.
func (a *Array[V]) Set(i uint64, value V) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if i >= n {
		return errors.Errorf("array index %d out of range [0, %d)", i, n)
	}
	return a.items.Set(pstake.Uint64ToBytes32(i), value)
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.items.Set(pstake.Uint64ToBytes32(n), value); err != nil {
		return 0, err
	}
	a.length.Set(new(uint256.Int).SetUint64(n + 1))
	return n, nil
}

// All returns every element in index order.
func (a *Array[V]) All() ([]V, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	values := make([]V, 0, n)
	for i := range n {
		v, err := a.items.Get(pstake.Uint64ToBytes32(i))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
