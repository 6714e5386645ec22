// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/pooledstaking/pstake/kv"
	"github.com/pooledstaking/pstake/pstake"
)

type change struct {
	key []byte
	val rlp.RawValue
}

// Stage abstracts changes collected from a state.
type Stage struct {
	changes []change
}

func newStage(m map[storageKey]rlp.RawValue) *Stage {
	changes := make([]change, 0, len(m))
	for k, v := range m {
		changes = append(changes, change{k.bytes(), v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].key, changes[j].key) < 0
	})
	return &Stage{changes}
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the digest of all changes, in key order.
// It returns zero bytes32 if nothing changed.
func (s *Stage) Hash() pstake.Bytes32 {
	if len(s.changes) == 0 {
		return pstake.Bytes32{}
	}
	hasher := pstake.NewBlake2b()
	for _, c := range s.changes {
		hasher.Write(c.key)
		hasher.Write(c.val)
	}
	var h pstake.Bytes32
	hasher.Sum(h[:0])
	return h
}

// Write puts all changes into the given putter. Empty values delete the slot.
func (s *Stage) Write(p kv.Putter) error {
	putter := StorageBucket.NewPutter(p)
	for _, c := range s.changes {
		if len(c.val) == 0 {
			if err := putter.Delete(c.key); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := putter.Put(c.key, c.val); err != nil {
			return &Error{err}
		}
	}
	return nil
}

// Commit writes all changes into the store atomically.
func (s *Stage) Commit(store kv.Store) error {
	bulk := store.Bulk()
	if err := s.Write(bulk); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
